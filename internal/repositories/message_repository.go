package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"

	_ "embed"
)

//go:embed migrations/004_create_messages_table_up.sql
var createMessagesTableQuery string

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) (*MessageRepository, error) {
	var repo = MessageRepository{db: db}
	var _, err = repo.db.Exec(createMessagesTableQuery)
	if err != nil {
		return nil, err
	}

	return &repo, nil
}

// CreateMessage is the durability point of the send pipeline: once it
// returns, the message exists regardless of cache or fanout outcomes.
func (r *MessageRepository) CreateMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error) {
	msg := models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		SentAt:   time.Now().UTC(),
	}

	err := r.db.QueryRowContext(ctx,
		"INSERT INTO messages (chat_id, sender_id, content, sent_at) VALUES ($1, $2, $3, $4) RETURNING id",
		chatID, senderID, content, msg.SentAt).Scan(&msg.ID)
	if err != nil {
		return nil, err
	}

	return &msg, nil
}

func (r *MessageRepository) GetMessages(ctx context.Context, chatID string, limit, offset int) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, chat_id, sender_id, content, sent_at FROM messages WHERE chat_id = $1 ORDER BY id LIMIT $2 OFFSET $3",
		chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Content, &msg.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
