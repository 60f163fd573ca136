package ports

import (
	"context"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"
)

type IUserRepository interface {
	IUserRepositoryReader
	IUserRepositoryWriter
}

type IUserRepositoryReader interface {
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByVerifyToken(ctx context.Context, token string) (*models.User, error)
	// FindUsersByUsernames resolves usernames to user records; callers detect
	// unknown names by comparing result count against the requested set.
	FindUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

type IUserRepositoryWriter interface {
	CreateUser(ctx context.Context, user *models.User) error
	MarkUserAsVerified(ctx context.Context, username string) error
	// SetOnline updates the presence columns only; nothing else about a user
	// is mutated by connection lifecycle events.
	SetOnline(ctx context.Context, userID string, online bool, lastSeen time.Time) error
}
