package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cagcankoc/ChatCore/internal/models"
	"github.com/cagcankoc/ChatCore/internal/ports"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users  ports.IUserRepositoryReader
	logger *slog.Logger
}

func NewUserHandler(users ports.IUserRepositoryReader, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// GetUsers lists every user's public profile; the client uses it to pick
// members when starting a new chat.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.users.GetAllUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	profiles := make([]models.PublicUser, len(users))
	for i, u := range users {
		profiles[i] = u.Public()
	}

	c.JSON(http.StatusOK, gin.H{"users": profiles})
}
