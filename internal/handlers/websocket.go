package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cagcankoc/ChatCore/internal/realtime"
	"github.com/cagcankoc/ChatCore/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WebSocketHandler struct {
	hub         *realtime.Hub
	authService *services.AuthService
	logger      *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, authService *services.AuthService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		logger:      logger,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		cookie, err := c.Request.Cookie("token")
		if err == nil {
			token = cookie.Value
		}
	}

	identity, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Warn("unauthorized websocket connection attempt")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := realtime.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &realtime.Client{
		Hub:    h.hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: identity.UserID,
		ConnID: uuid.New().String(),
	}

	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("websocket connection established", "userID", identity.UserID, "connID", client.ConnID)
}
