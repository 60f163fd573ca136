package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"
	"github.com/cagcankoc/ChatCore/internal/ports"
	"github.com/cagcankoc/ChatCore/internal/realtime"

	"github.com/google/uuid"
)

// ChatService enforces chat-creation invariants and owns the cache-backed
// chat read path.
type ChatService struct {
	chatRepo    ports.IChatRepository
	userRepo    ports.IUserRepositoryReader
	cache       ports.IChatCache
	broadcaster ports.IBroadcaster
	cacheTTL    time.Duration
	logger      *slog.Logger
}

func NewChatService(chatRepo ports.IChatRepository, userRepo ports.IUserRepositoryReader,
	cache ports.IChatCache, broadcaster ports.IBroadcaster, cacheTTL time.Duration, logger *slog.Logger) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		cache:       cache,
		broadcaster: broadcaster,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// CreateChat validates membership rules, persists the chat and notifies all
// members over their live connections.
//
// The duplicate-private-chat check is read-then-create and therefore
// best-effort: two users firing the same request at once can slip past it.
// A unique index over the normalized member pair would close the race.
func (s *ChatService) CreateChat(ctx context.Context, requesterID string, usernames []string, name string, isGroup bool) (*models.Chat, error) {
	unique := dedupe(usernames)

	if isGroup {
		if len(unique) < 3 {
			return nil, ErrInvalidMembership
		}
	} else {
		if len(unique) != 2 {
			return nil, ErrInvalidMembership
		}
		// Private chats carry no display name.
		name = ""
	}

	users, err := s.userRepo.FindUsersByUsernames(ctx, unique)
	if err != nil {
		s.logger.Error("failed to resolve usernames", "error", err)
		return nil, err
	}
	if len(users) != len(unique) {
		s.logger.Warn("unresolved usernames in chat creation", "requested", len(unique), "resolved", len(users))
		return nil, ErrUsersNotFound
	}

	requesterIncluded := false
	for _, u := range users {
		if u.ID == requesterID {
			requesterIncluded = true
			break
		}
	}
	if !requesterIncluded {
		return nil, ErrNotChatMember
	}

	if !isGroup {
		exists, err := s.chatRepo.PrivateChatExists(ctx, users[0].ID, users[1].ID)
		if err != nil {
			s.logger.Error("duplicate chat check failed", "error", err)
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateChat
		}
	}

	chat := &models.Chat{
		ID:        uuid.New().String(),
		Name:      name,
		IsGroup:   isGroup,
		CreatedAt: time.Now().UTC(),
		Members:   users,
	}

	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		s.logger.Error("failed to create chat in repository", "error", err)
		return nil, err
	}

	s.broadcaster.EmitToUsers(chat.MemberIDs(), realtime.EventChatCreated, models.NewChatView(chat))

	s.logger.Info("chat created", "chatID", chat.ID, "isGroup", isGroup, "memberCount", len(users))
	return chat, nil
}

// ValidateSender loads the chat's membership and confirms userID belongs to
// it. Used by the message pipeline before accepting a send.
func (s *ChatService) ValidateSender(ctx context.Context, chatID, userID string) (*models.Chat, error) {
	chat, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to load chat", "chatID", chatID, "error", err)
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !chat.HasMember(userID) {
		s.logger.Warn("user is not a member of the chat", "userID", userID, "chatID", chatID)
		return nil, ErrNotChatMember
	}
	return chat, nil
}

// GetChat is the read-through path: serve from the cache when possible,
// otherwise load from the store and populate the cache. Authorization is
// re-checked even on a hit; membership is immutable post-creation, so the
// cached member list is trusted as the content of that check.
func (s *ChatService) GetChat(ctx context.Context, chatID, requesterID string) (*models.ChatView, error) {
	view, err := s.cache.Get(ctx, chatID)
	if err != nil {
		// Cache trouble is never fatal; fall back to the store.
		s.logger.Warn("chat cache read failed", "chatID", chatID, "error", err)
	}
	if view != nil {
		if !view.HasMember(requesterID) {
			return nil, ErrUnauthorized
		}
		s.logger.Debug("chat served from cache", "chatID", chatID)
		return view, nil
	}

	chat, err := s.chatRepo.GetChatWithMessages(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to load chat", "chatID", chatID, "error", err)
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !chat.HasMember(requesterID) {
		return nil, ErrUnauthorized
	}

	view = models.NewChatView(chat)
	if err := s.cache.Set(ctx, chatID, view, s.cacheTTL); err != nil {
		s.logger.Warn("failed to populate chat cache", "chatID", chatID, "error", err)
	}

	return view, nil
}

func (s *ChatService) GetUserChats(ctx context.Context, userID string) ([]models.Chat, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	chats, err := s.chatRepo.GetUserChats(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user chats", "userID", userID, "error", err)
		return nil, err
	}

	s.logger.Debug("retrieved user chats", "userID", userID, "chatCount", len(chats))
	return chats, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
