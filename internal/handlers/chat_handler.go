package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cagcankoc/ChatCore/internal/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ChatHandler struct {
	chats    *services.ChatService
	messages *services.MessageService
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewChatHandler(chats *services.ChatService, messages *services.MessageService, logger *slog.Logger, tracer trace.Tracer) *ChatHandler {
	return &ChatHandler{chats: chats, messages: messages, logger: logger, tracer: tracer}
}

// statusForError maps the service error taxonomy onto HTTP statuses. Unknown
// errors mean the store misbehaved; nothing internal leaks to the caller.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidMessage),
		errors.Is(err, services.ErrInvalidMembership),
		errors.Is(err, services.ErrUsersNotFound):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotChatMember),
		errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrChatNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateChat):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *ChatHandler) CreateChat(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "ChatHandler.CreateChat")
	defer span.End()

	var req struct {
		Usernames []string `json:"usernames"`
		Name      string   `json:"name"`
		IsGroup   bool     `json:"is_group"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	userID := c.GetString("userID")
	span.SetAttributes(attribute.Bool("chat.is_group", req.IsGroup))

	chat, err := h.chats.CreateChat(ctx, userID, req.Usernames, req.Name, req.IsGroup)
	if err != nil {
		h.logger.Warn("chat creation failed", "userID", userID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chat)
}

func (h *ChatHandler) GetUserChats(c *gin.Context) {
	userID := c.GetString("userID")

	chats, err := h.chats.GetUserChats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get user chats", "userID", userID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *ChatHandler) GetChat(c *gin.Context) {
	chatID := c.Param("chatId")
	userID := c.GetString("userID")

	view, err := h.chats.GetChat(c.Request.Context(), chatID, userID)
	if err != nil {
		h.logger.Warn("failed to get chat", "chatID", chatID, "userID", userID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	chatID := c.Param("chatId")
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.messages.GetChatMessages(c.Request.Context(), chatID, userID, limit, offset)
	if err != nil {
		h.logger.Warn("failed to get chat messages", "chatID", chatID, "userID", userID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "ChatHandler.SendMessage")
	defer span.End()

	var req struct {
		ChatID  string `json:"chat_id"`
		Content string `json:"content"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	userID := c.GetString("userID")
	span.SetAttributes(attribute.String("chat.id", req.ChatID))

	msg, err := h.messages.SendMessage(ctx, req.ChatID, userID, req.Content)
	if err != nil {
		h.logger.Warn("send message failed", "chatID", req.ChatID, "userID", userID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}
