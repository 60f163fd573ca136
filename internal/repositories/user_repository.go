package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"

	_ "embed"

	"github.com/lib/pq"
)

//go:embed migrations/001_create_users_table_up.sql
var createUsersTableQuery string

type UserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewUserRepository(db *sql.DB, logger *slog.Logger) (*UserRepository, error) {
	var repo = UserRepository{db: db, logger: logger}
	var _, err = repo.db.Exec(createUsersTableQuery)
	if err != nil {
		logger.Error(err.Error())
		return nil, err
	}

	return &repo, nil
}

const userColumns = "id, username, password_hash, email, avatar_url, is_online, last_seen, is_verified, verify_token"

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var user models.User
	var verifyToken sql.NullString

	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email,
		&user.AvatarURL, &user.IsOnline, &user.LastSeen, &user.IsVerified, &verifyToken)
	if err != nil {
		return nil, err
	}
	if verifyToken.Valid {
		user.VerifyToken = verifyToken.String
	}
	return &user, nil
}

func (r *UserRepository) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) GetUserByVerifyToken(ctx context.Context, token string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE verify_token = $1", token)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) FindUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ANY($1)", pq.Array(usernames))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, email, avatar_url, verify_token)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.PasswordHash, user.Email, user.AvatarURL, user.VerifyToken)
	return err
}

func (r *UserRepository) MarkUserAsVerified(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_verified = TRUE, verify_token = NULL WHERE username = $1",
		username)
	return err
}

func (r *UserRepository) SetOnline(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_online = $1, last_seen = $2 WHERE id = $3",
		online, lastSeen, userID)
	return err
}
