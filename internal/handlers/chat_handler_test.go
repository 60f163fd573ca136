package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/cagcankoc/ChatCore/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	ts := []struct {
		name     string
		err      error
		expected int
	}{
		{"Invalid input", services.ErrInvalidInput, http.StatusBadRequest},
		{"Invalid message", services.ErrInvalidMessage, http.StatusBadRequest},
		{"Invalid membership", services.ErrInvalidMembership, http.StatusBadRequest},
		{"Users not found", services.ErrUsersNotFound, http.StatusBadRequest},
		{"Not a chat member", services.ErrNotChatMember, http.StatusForbidden},
		{"Unauthorized", services.ErrUnauthorized, http.StatusForbidden},
		{"Chat not found", services.ErrChatNotFound, http.StatusNotFound},
		{"Duplicate chat", services.ErrDuplicateChat, http.StatusConflict},
		{"Store failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range ts {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusForError(tt.err))
		})
	}
}
