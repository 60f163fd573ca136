package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChatCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryChatCache()

	missed, err := cache.Get(ctx, "chat1")
	assert.NoError(t, err)
	assert.Nil(t, missed)

	view := &models.ChatView{
		ID:      "chat1",
		Name:    "general",
		Members: []models.PublicUser{{ID: "u1"}, {ID: "u2"}},
	}
	require.NoError(t, cache.Set(ctx, "chat1", view, time.Minute))

	got, err := cache.Get(ctx, "chat1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "general", got.Name)
	assert.Len(t, got.Members, 2)

	require.NoError(t, cache.Delete(ctx, "chat1"))

	got, err = cache.Get(ctx, "chat1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryChatCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryChatCache()

	view := &models.ChatView{ID: "chat1"}
	require.NoError(t, cache.Set(ctx, "chat1", view, 10*time.Millisecond))

	time.Sleep(20 * time.Millisecond)

	got, err := cache.Get(ctx, "chat1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryChatCache_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryChatCache()

	view := &models.ChatView{
		ID:       "chat1",
		Messages: []models.MessageView{{SenderID: "u1", Content: "first"}},
	}
	require.NoError(t, cache.Set(ctx, "chat1", view, time.Minute))

	first, err := cache.Get(ctx, "chat1")
	require.NoError(t, err)
	first.Messages = append(first.Messages, models.MessageView{SenderID: "u2", Content: "second"})
	first.Messages[0].Content = "mutated"

	second, err := cache.Get(ctx, "chat1")
	require.NoError(t, err)
	assert.Len(t, second.Messages, 1)
	assert.Equal(t, "first", second.Messages[0].Content)
}
