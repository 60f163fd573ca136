package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"
)

type memoryCacheEntry struct {
	view      models.ChatView
	expiresAt time.Time
}

// MemoryChatCache is an in-process IChatCache used when no redis address is
// configured (development, tests). Expiry is checked lazily on Get.
type MemoryChatCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
}

func NewMemoryChatCache() *MemoryChatCache {
	return &MemoryChatCache{
		entries: make(map[string]memoryCacheEntry),
	}
}

func (c *MemoryChatCache) Get(ctx context.Context, chatID string) (*models.ChatView, error) {
	c.mu.RLock()
	entry, ok := c.entries[chatID]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, chatID)
		c.mu.Unlock()
		return nil, nil
	}

	// Copy so callers can append messages without mutating the cached value.
	view := entry.view
	view.Members = append([]models.PublicUser(nil), entry.view.Members...)
	view.Messages = append([]models.MessageView(nil), entry.view.Messages...)
	return &view, nil
}

func (c *MemoryChatCache) Set(ctx context.Context, chatID string, view *models.ChatView, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[chatID] = memoryCacheEntry{view: *view, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryChatCache) Delete(ctx context.Context, chatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, chatID)
	return nil
}
