package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceRecorder struct {
	mu      sync.Mutex
	online  []string
	offline []string
}

func (p *presenceRecorder) UserOnline(ctx context.Context, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = append(p.online, userID)
}

func (p *presenceRecorder) UserOffline(ctx context.Context, userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offline = append(p.offline, userID)
}

func (p *presenceRecorder) onlineCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.online...)
}

func (p *presenceRecorder) offlineCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.offline...)
}

func newTestHub() (*Hub, *presenceRecorder) {
	hub := NewHub(NewConnectionRegistry(), nil, slog.Default())
	presence := &presenceRecorder{}
	hub.SetPresenceNotifier(presence)
	go hub.Run()
	return hub, presence
}

func newTestClient(hub *Hub, userID, connID string, buffer int) *Client {
	return &Client{
		Hub:    hub,
		Send:   make(chan []byte, buffer),
		UserID: userID,
		ConnID: connID,
	}
}

func decodeEvent(t *testing.T, payload []byte) Event {
	t.Helper()
	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))
	return event
}

func TestHub_EmitToUser(t *testing.T) {
	hub, _ := newTestHub()

	alice := newTestClient(hub, "u1", "c1", 8)
	aliceTab := newTestClient(hub, "u1", "c2", 8)
	bob := newTestClient(hub, "u2", "c3", 8)

	hub.Register <- alice
	hub.Register <- aliceTab
	hub.Register <- bob

	assert.Eventually(t, func() bool {
		return len(hub.registry.ConnectionsFor("u1")) == 2 && hub.registry.IsOnline("u2")
	}, time.Second, 10*time.Millisecond)

	hub.EmitToUser("u1", "ReceiveMessage", map[string]string{"content": "hi"})

	for _, client := range []*Client{alice, aliceTab} {
		select {
		case payload := <-client.Send:
			event := decodeEvent(t, payload)
			assert.Equal(t, "ReceiveMessage", event.Event)
		case <-time.After(time.Second):
			t.Fatalf("connection %s received nothing", client.ConnID)
		}
	}

	select {
	case <-bob.Send:
		t.Fatal("event leaked to a user it was not addressed to")
	default:
	}
}

func TestHub_EmitToUsers(t *testing.T) {
	hub, _ := newTestHub()

	alice := newTestClient(hub, "u1", "c1", 8)
	bob := newTestClient(hub, "u2", "c2", 8)
	carol := newTestClient(hub, "u3", "c3", 8)

	hub.Register <- alice
	hub.Register <- bob
	hub.Register <- carol

	assert.Eventually(t, func() bool {
		return hub.registry.IsOnline("u1") && hub.registry.IsOnline("u2") && hub.registry.IsOnline("u3")
	}, time.Second, 10*time.Millisecond)

	hub.EmitToUsers([]string{"u1", "u2"}, "ChatCreated", map[string]string{"id": "chat1"})

	for _, client := range []*Client{alice, bob} {
		select {
		case payload := <-client.Send:
			assert.Equal(t, "ChatCreated", decodeEvent(t, payload).Event)
		case <-time.After(time.Second):
			t.Fatalf("connection %s received nothing", client.ConnID)
		}
	}

	select {
	case <-carol.Send:
		t.Fatal("event leaked to a non-member")
	default:
	}
}

func TestHub_EmitToAll(t *testing.T) {
	hub, _ := newTestHub()

	clients := []*Client{
		newTestClient(hub, "u1", "c1", 8),
		newTestClient(hub, "u2", "c2", 8),
	}
	for _, client := range clients {
		hub.Register <- client
	}

	assert.Eventually(t, func() bool {
		return len(hub.registry.AllConnections()) == 2
	}, time.Second, 10*time.Millisecond)

	hub.EmitToAll("UserConnected", map[string]string{"id": "u3"})

	for _, client := range clients {
		select {
		case payload := <-client.Send:
			assert.Equal(t, "UserConnected", decodeEvent(t, payload).Event)
		case <-time.After(time.Second):
			t.Fatalf("connection %s received nothing", client.ConnID)
		}
	}
}

func TestHub_PresenceTransitions(t *testing.T) {
	hub, presence := newTestHub()

	first := newTestClient(hub, "u1", "c1", 8)
	second := newTestClient(hub, "u1", "c2", 8)

	hub.Register <- first
	hub.Register <- second

	assert.Eventually(t, func() bool {
		return len(presence.onlineCalls()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"u1"}, presence.onlineCalls())

	hub.Unregister <- first
	assert.Eventually(t, func() bool {
		return hub.registry.IsOnline("u1") && len(hub.registry.ConnectionsFor("u1")) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, presence.offlineCalls())

	hub.Unregister <- second
	assert.Eventually(t, func() bool {
		return len(presence.offlineCalls()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"u1"}, presence.offlineCalls())

	// A segment that already left; nothing should fire twice.
	hub.Unregister <- second
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"u1"}, presence.offlineCalls())
}

func TestHub_SlowConsumerDropped(t *testing.T) {
	hub, presence := newTestHub()

	slow := newTestClient(hub, "u1", "c1", 1)
	healthy := newTestClient(hub, "u2", "c2", 8)

	hub.Register <- slow
	hub.Register <- healthy

	assert.Eventually(t, func() bool {
		return hub.registry.IsOnline("u1") && hub.registry.IsOnline("u2")
	}, time.Second, 10*time.Millisecond)

	// First emit fills the slow client's buffer, second overflows it.
	hub.EmitToAll("ReceiveMessage", map[string]string{"seq": "1"})
	hub.EmitToAll("ReceiveMessage", map[string]string{"seq": "2"})

	assert.Eventually(t, func() bool {
		return !hub.registry.IsOnline("u1")
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(presence.offlineCalls()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.True(t, hub.registry.IsOnline("u2"))
	assert.Len(t, healthy.Send, 2)
}
