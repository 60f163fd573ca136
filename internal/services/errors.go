package services

import "errors"

// Caller-facing error taxonomy. Handlers map these to HTTP statuses; none
// of them carries internal identifiers or stack traces.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidMessage    = errors.New("message content must not be empty")
	ErrInvalidMembership = errors.New("wrong number of members for this chat type")
	ErrUsersNotFound     = errors.New("one or more users not found")
	ErrChatNotFound      = errors.New("chat not found")
	ErrNotChatMember     = errors.New("user is not a member of this chat")
	ErrDuplicateChat     = errors.New("private chat already exists")
	ErrUnauthorized      = errors.New("not authorized for this chat")
)
