//go:build swagger
// +build swagger

package handlers

// DTO structs only for Swagger documentation

// LoginRequest represents login request data
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents registration request data
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// CreateChatRequest represents chat creation request data
type CreateChatRequest struct {
	Usernames []string `json:"usernames" binding:"required"`
	Name      string   `json:"name"`
	IsGroup   bool     `json:"is_group"`
}

// SendMessageRequest represents message send request data
type SendMessageRequest struct {
	ChatID  string `json:"chat_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}
