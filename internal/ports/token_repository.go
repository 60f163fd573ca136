package ports

import (
	"context"
	"time"
)

// TokenRepository tracks revoked token hashes until their natural expiry.
type TokenRepository interface {
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
	Revoke(ctx context.Context, tokenHash string, expiration time.Duration) error
}
