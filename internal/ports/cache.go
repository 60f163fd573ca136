package ports

import (
	"context"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"
)

// IChatCache is the read-model cache keyed by chat id. The cache is a
// derived, disposable artifact: every implementation must tolerate loss of
// any entry at any time. Returns (nil, nil) on a miss.
type IChatCache interface {
	Get(ctx context.Context, chatID string) (*models.ChatView, error)
	Set(ctx context.Context, chatID string, view *models.ChatView, ttl time.Duration) error
	Delete(ctx context.Context, chatID string) error
}
