package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionRegistry_Register(t *testing.T) {
	ts := []struct {
		name     string
		setup    func(*ConnectionRegistry)
		userID   string
		connID   string
		expected bool
	}{
		{
			name:     "First connection makes user online",
			setup:    func(r *ConnectionRegistry) {},
			userID:   "u1",
			connID:   "c1",
			expected: true,
		},
		{
			name: "Second connection does not report online again",
			setup: func(r *ConnectionRegistry) {
				r.Register("u1", "c1")
			},
			userID:   "u1",
			connID:   "c2",
			expected: false,
		},
		{
			name: "Different user is independent",
			setup: func(r *ConnectionRegistry) {
				r.Register("u1", "c1")
			},
			userID:   "u2",
			connID:   "c2",
			expected: true,
		},
	}

	for _, tt := range ts {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewConnectionRegistry()
			tt.setup(registry)

			becameOnline := registry.Register(tt.userID, tt.connID)

			assert.Equal(t, tt.expected, becameOnline)
			assert.True(t, registry.IsOnline(tt.userID))
		})
	}
}

func TestConnectionRegistry_Unregister(t *testing.T) {
	t.Run("User stays online until last connection closes", func(t *testing.T) {
		registry := NewConnectionRegistry()
		registry.Register("u1", "c1")
		registry.Register("u1", "c2")

		userID, becameOffline := registry.Unregister("c1")
		assert.Equal(t, "u1", userID)
		assert.False(t, becameOffline)
		assert.True(t, registry.IsOnline("u1"))

		userID, becameOffline = registry.Unregister("c2")
		assert.Equal(t, "u1", userID)
		assert.True(t, becameOffline)
		assert.False(t, registry.IsOnline("u1"))
	})

	t.Run("Duplicate unregister is harmless", func(t *testing.T) {
		registry := NewConnectionRegistry()
		registry.Register("u1", "c1")

		_, becameOffline := registry.Unregister("c1")
		assert.True(t, becameOffline)

		userID, becameOffline := registry.Unregister("c1")
		assert.Equal(t, "", userID)
		assert.False(t, becameOffline)
	})

	t.Run("Unknown connection is ignored", func(t *testing.T) {
		registry := NewConnectionRegistry()

		userID, becameOffline := registry.Unregister("nope")
		assert.Equal(t, "", userID)
		assert.False(t, becameOffline)
	})
}

func TestConnectionRegistry_ConnectionsFor(t *testing.T) {
	registry := NewConnectionRegistry()
	registry.Register("u1", "c1")
	registry.Register("u1", "c2")
	registry.Register("u2", "c3")

	assert.ElementsMatch(t, []string{"c1", "c2"}, registry.ConnectionsFor("u1"))
	assert.ElementsMatch(t, []string{"c3"}, registry.ConnectionsFor("u2"))
	assert.Nil(t, registry.ConnectionsFor("u3"))

	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, registry.AllConnections())
}

func TestConnectionRegistry_ConcurrentRegisters(t *testing.T) {
	registry := NewConnectionRegistry()

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	onlineSignals := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if registry.Register("u1", fmt.Sprintf("c%d", i)) {
				mu.Lock()
				onlineSignals++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, onlineSignals)
	assert.Len(t, registry.ConnectionsFor("u1"), workers)

	offlineSignals := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, becameOffline := registry.Unregister(fmt.Sprintf("c%d", i)); becameOffline {
				mu.Lock()
				offlineSignals++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, offlineSignals)
	assert.False(t, registry.IsOnline("u1"))
}
