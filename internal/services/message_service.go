package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"
	"github.com/cagcankoc/ChatCore/internal/ports"
	"github.com/cagcankoc/ChatCore/internal/realtime"

	"github.com/prometheus/client_golang/prometheus"
)

// MessageService runs the send pipeline: validate, persist, patch the cache,
// fan out. Persistence is the point of no return; everything after it is
// best-effort.
type MessageService struct {
	messageRepo ports.IMessageRepository
	chats       ports.IChatValidator
	cache       ports.IChatCache
	broadcaster ports.IBroadcaster
	cacheTTL    time.Duration
	sent        prometheus.Counter
	logger      *slog.Logger
}

func NewMessageService(messageRepo ports.IMessageRepository, chats ports.IChatValidator,
	cache ports.IChatCache, broadcaster ports.IBroadcaster, cacheTTL time.Duration, logger *slog.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		chats:       chats,
		cache:       cache,
		broadcaster: broadcaster,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// SetSentCounter attaches the messages-sent metric; nil leaves it unwired.
func (s *MessageService) SetSentCounter(counter prometheus.Counter) {
	s.sent = counter
}

func (s *MessageService) SendMessage(ctx context.Context, chatID, senderID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidMessage
	}

	chat, err := s.chats.ValidateSender(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}

	msg, err := s.messageRepo.CreateMessage(ctx, chatID, senderID, content)
	if err != nil {
		s.logger.Error("failed to persist message", "chatID", chatID, "senderID", senderID, "error", err)
		return nil, err
	}

	s.patchCache(ctx, chatID, msg)

	s.broadcaster.EmitToUsers(chat.MemberIDs(), realtime.EventReceiveMessage, msg)

	if s.sent != nil {
		s.sent.Inc()
	}
	s.logger.Info("message sent", "chatID", chatID, "senderID", senderID, "messageID", msg.ID)
	return msg, nil
}

// patchCache appends the message to an existing cache entry and refreshes
// its expiry. It never creates an entry: population is the read path's job,
// and chats nobody reads should not occupy the cache. Failures here are
// logged and swallowed; the store already holds the message.
func (s *MessageService) patchCache(ctx context.Context, chatID string, msg *models.Message) {
	view, err := s.cache.Get(ctx, chatID)
	if err != nil {
		s.logger.Warn("cache read failed during message append", "chatID", chatID, "error", err)
		return
	}
	if view == nil {
		return
	}

	view.Messages = append(view.Messages, models.MessageView{
		SenderID: msg.SenderID,
		Content:  msg.Content,
		SentAt:   msg.SentAt,
	})

	if err := s.cache.Set(ctx, chatID, view, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed during message append", "chatID", chatID, "error", err)
	}
}

// GetChatMessages pages through a chat's history, oldest first. The
// requester must be a member; the check reuses the send path's validator.
func (s *MessageService) GetChatMessages(ctx context.Context, chatID, requesterID string, limit, offset int) ([]models.Message, error) {
	if _, err := s.chats.ValidateSender(ctx, chatID, requesterID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messageRepo.GetMessages(ctx, chatID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get chat messages", "chatID", chatID, "error", err)
		return nil, err
	}

	s.logger.Debug("retrieved chat messages", "chatID", chatID, "messageCount", len(messages))
	return messages, nil
}
