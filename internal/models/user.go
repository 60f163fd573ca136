package models

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"-"`
	AvatarURL    string    `json:"avatar_url"`
	IsOnline     bool      `json:"is_online"`
	LastSeen     time.Time `json:"last_seen"`
	IsVerified   bool      `json:"-"`
	VerifyToken  string    `json:"-"`
}

// PublicUser is the profile shape exposed to other users, both over the
// REST surface and inside realtime presence events.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	IsOnline  bool      `json:"is_online"`
	LastSeen  time.Time `json:"last_seen"`
}

func NewUser(id, username, passwordHash, email string) *User {
	return &User{ID: id, Username: username, PasswordHash: passwordHash, Email: email}
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		IsOnline:  u.IsOnline,
		LastSeen:  u.LastSeen,
	}
}

func ValidateUser(user *User) error {
	if user.Username == "" || user.PasswordHash == "" || user.Email == "" {
		return errors.New("empty fields detected")
	}
	return nil
}
