package services_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/cagcankoc/ChatCore/app/tests"
	"github.com/cagcankoc/ChatCore/internal/models"
	"github.com/cagcankoc/ChatCore/internal/realtime"
	"github.com/cagcankoc/ChatCore/internal/services"

	"github.com/stretchr/testify/mock"
)

func TestPresenceService_UserOnline(t *testing.T) {
	ctx := context.Background()

	userRepo := &tests.MockUserRepository{}
	broadcaster := &tests.MockBroadcaster{}

	userRepo.On("SetOnline", ctx, "u1", true, mock.Anything).Return(nil)
	userRepo.On("GetUserByID", ctx, "u1").Return(&models.User{ID: "u1", Username: "alice"}, nil)
	broadcaster.On("EmitToAll", realtime.EventUserConnected, mock.MatchedBy(func(p models.PublicUser) bool {
		return p.ID == "u1" && p.Username == "alice" && p.IsOnline
	}))

	service := services.NewPresenceService(userRepo, broadcaster, slog.Default())
	service.UserOnline(ctx, "u1")

	userRepo.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestPresenceService_UserOffline(t *testing.T) {
	ctx := context.Background()

	userRepo := &tests.MockUserRepository{}
	broadcaster := &tests.MockBroadcaster{}

	userRepo.On("SetOnline", ctx, "u1", false, mock.Anything).Return(nil)
	userRepo.On("GetUserByID", ctx, "u1").Return(&models.User{ID: "u1", Username: "alice", IsOnline: true}, nil)
	broadcaster.On("EmitToAll", realtime.EventUserDisconnected, mock.MatchedBy(func(p models.PublicUser) bool {
		return p.ID == "u1" && !p.IsOnline
	}))

	service := services.NewPresenceService(userRepo, broadcaster, slog.Default())
	service.UserOffline(ctx, "u1")

	userRepo.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}

func TestPresenceService_StoreFailureStillBroadcasts(t *testing.T) {
	ctx := context.Background()

	userRepo := &tests.MockUserRepository{}
	broadcaster := &tests.MockBroadcaster{}

	userRepo.On("SetOnline", ctx, "u1", true, mock.Anything).Return(errors.New("db down"))
	userRepo.On("GetUserByID", ctx, "u1").Return((*models.User)(nil), errors.New("db down"))
	broadcaster.On("EmitToAll", realtime.EventUserConnected, mock.MatchedBy(func(p models.PublicUser) bool {
		return p.ID == "u1" && p.IsOnline
	}))

	service := services.NewPresenceService(userRepo, broadcaster, slog.Default())
	service.UserOnline(ctx, "u1")

	userRepo.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
}
