package adapters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"

	"github.com/go-redis/redis"
)

// RedisChatCache stores chat read models as JSON strings under "chat:<id>"
// with an explicit TTL. Absence of an entry is a miss, never an error.
type RedisChatCache struct {
	client *redis.Client
}

func NewRedisChatCache(client *redis.Client) *RedisChatCache {
	return &RedisChatCache{client: client}
}

func chatKey(chatID string) string {
	return "chat:" + chatID
}

func (c *RedisChatCache) Get(ctx context.Context, chatID string) (*models.ChatView, error) {
	data, err := c.client.Get(chatKey(chatID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var view models.ChatView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *RedisChatCache) Set(ctx context.Context, chatID string, view *models.ChatView, ttl time.Duration) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(chatKey(chatID), data, ttl).Err()
}

func (c *RedisChatCache) Delete(ctx context.Context, chatID string) error {
	return c.client.Del(chatKey(chatID)).Err()
}
