package repositories

import (
	"context"
	"database/sql"

	"github.com/cagcankoc/ChatCore/internal/models"

	_ "embed"
)

//go:embed migrations/002_create_chats_table_up.sql
var createChatsTableQuery string

//go:embed migrations/003_create_chat_members_up.sql
var createChatMembersQuery string

type ChatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) (*ChatRepository, error) {
	var repo = ChatRepository{db: db}
	if _, err := repo.db.Exec(createChatsTableQuery); err != nil {
		return nil, err
	}
	if _, err := repo.db.Exec(createChatMembersQuery); err != nil {
		return nil, err
	}

	return &repo, nil
}

func (r *ChatRepository) CreateChat(ctx context.Context, chat *models.Chat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO chats (id, chatname, is_group, created_at) VALUES ($1, $2, $3, $4)",
		chat.ID, chat.Name, chat.IsGroup, chat.CreatedAt)
	if err != nil {
		return err
	}

	for _, member := range chat.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2)",
			chat.ID, member.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ChatRepository) GetChatByID(ctx context.Context, chatID string) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.QueryRowContext(ctx,
		"SELECT id, chatname, is_group, created_at FROM chats WHERE id = $1", chatID).
		Scan(&chat.ID, &chat.Name, &chat.IsGroup, &chat.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	members, err := r.getMembers(ctx, chatID)
	if err != nil {
		return nil, err
	}
	chat.Members = members

	return &chat, nil
}

func (r *ChatRepository) GetChatWithMessages(ctx context.Context, chatID string) (*models.Chat, error) {
	chat, err := r.GetChatByID(ctx, chatID)
	if err != nil || chat == nil {
		return chat, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, chat_id, sender_id, content, sent_at FROM messages WHERE chat_id = $1 ORDER BY id",
		chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Content, &msg.SentAt); err != nil {
			return nil, err
		}
		chat.Messages = append(chat.Messages, msg)
	}

	return chat, rows.Err()
}

func (r *ChatRepository) GetUserChats(ctx context.Context, userID string) ([]models.Chat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.chatname, c.is_group, c.created_at
		FROM chats c
		JOIN chat_members cm ON c.id = cm.chat_id
		WHERE cm.user_id = $1
		ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ID, &chat.Name, &chat.IsGroup, &chat.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range chats {
		members, err := r.getMembers(ctx, chats[i].ID)
		if err != nil {
			return nil, err
		}
		chats[i].Members = members
	}

	return chats, nil
}

// PrivateChatExists relies on the 2-member invariant of non-group chats:
// any private chat containing both users is exactly the pair's chat. The
// check-then-create around it is best-effort; see the uniqueness note in
// the chat service.
func (r *ChatRepository) PrivateChatExists(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chats c
			WHERE c.is_group = FALSE
			  AND EXISTS (SELECT 1 FROM chat_members m WHERE m.chat_id = c.id AND m.user_id = $1)
			  AND EXISTS (SELECT 1 FROM chat_members m WHERE m.chat_id = c.id AND m.user_id = $2)
		)`, userA, userB).Scan(&exists)
	return exists, err
}

func (r *ChatRepository) getMembers(ctx context.Context, chatID string) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.avatar_url, u.is_online, u.last_seen
		FROM users u
		JOIN chat_members cm ON u.id = cm.user_id
		WHERE cm.chat_id = $1
		ORDER BY u.id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.AvatarURL, &user.IsOnline, &user.LastSeen); err != nil {
			return nil, err
		}
		members = append(members, user)
	}
	return members, rows.Err()
}
