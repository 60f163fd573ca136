package ports

import (
	"context"

	"github.com/cagcankoc/ChatCore/internal/models"
)

type IChatRepository interface {
	// CreateChat persists the chat and its membership in one transaction.
	// The caller assigns the chat id and creation timestamp.
	CreateChat(ctx context.Context, chat *models.Chat) error
	// GetChatByID loads a chat with its member profiles but without
	// messages. Returns (nil, nil) when the chat does not exist.
	GetChatByID(ctx context.Context, chatID string) (*models.Chat, error)
	// GetChatWithMessages loads a chat with member profiles and the full
	// message sequence ordered by message id.
	GetChatWithMessages(ctx context.Context, chatID string) (*models.Chat, error)
	GetUserChats(ctx context.Context, userID string) ([]models.Chat, error)
	// PrivateChatExists reports whether a non-group chat already exists for
	// the given pair of users, in either order.
	PrivateChatExists(ctx context.Context, userA, userB string) (bool, error)
}

type IMessageRepository interface {
	// CreateMessage persists the message with a server-assigned UTC
	// timestamp and a store-assigned id, returning the full record.
	CreateMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error)
	GetMessages(ctx context.Context, chatID string, limit, offset int) ([]models.Message, error)
}
