package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/cagcankoc/ChatCore/internal/models"
	"github.com/cagcankoc/ChatCore/internal/ports"
	"github.com/cagcankoc/ChatCore/internal/realtime"
)

// PresenceService reacts to the registry's online/offline transitions: it
// updates the user's presence columns in the store and broadcasts the event
// to every connected client. Everyone hears presence changes, not just chat
// partners, because any user can be picked when starting a new chat.
type PresenceService struct {
	userRepo    ports.IUserRepository
	broadcaster ports.IBroadcaster
	logger      *slog.Logger
}

func NewPresenceService(userRepo ports.IUserRepository, broadcaster ports.IBroadcaster, logger *slog.Logger) *PresenceService {
	return &PresenceService{
		userRepo:    userRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *PresenceService) UserOnline(ctx context.Context, userID string) {
	s.transition(ctx, userID, true, realtime.EventUserConnected)
}

func (s *PresenceService) UserOffline(ctx context.Context, userID string) {
	s.transition(ctx, userID, false, realtime.EventUserDisconnected)
}

// transition is best-effort on the store side: a failed update is logged
// but the presence broadcast still goes out, and the connection lifecycle
// that triggered it is never affected.
func (s *PresenceService) transition(ctx context.Context, userID string, online bool, event string) {
	now := time.Now().UTC()

	if err := s.userRepo.SetOnline(ctx, userID, online, now); err != nil {
		s.logger.Error("failed to update presence in store", "userID", userID, "online", online, "error", err)
	}

	profile := models.PublicUser{ID: userID, IsOnline: online, LastSeen: now}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user for presence broadcast", "userID", userID, "error", err)
	} else if user != nil {
		profile = user.Public()
		profile.IsOnline = online
		profile.LastSeen = now
	}

	s.broadcaster.EmitToAll(event, profile)
	s.logger.Debug("presence broadcast", "userID", userID, "online", online)
}
