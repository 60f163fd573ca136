package ports

import (
	"context"

	"github.com/cagcankoc/ChatCore/internal/models"
)

// IChatValidator is the slice of the chat service the message pipeline
// depends on: confirming a sender belongs to a chat before accepting a send.
type IChatValidator interface {
	ValidateSender(ctx context.Context, chatID, userID string) (*models.Chat, error)
}

type IEmailService interface {
	SendVerificationEmail(email, token string) error
}
