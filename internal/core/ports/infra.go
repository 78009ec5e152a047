package ports

import (
	"context"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
	// Verify returns domain.ErrTokenExpired or domain.ErrInvalidToken on failure.
	Verify(token string) (*domain.Claims, error)
}

// IdempotencyStore claims request keys so a replayed batch is rejected.
type IdempotencyStore interface {
	// Claim reports false when key was already claimed and has not expired.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// PaymentPublisher hands completed payments to the ledger. It must not block
// the request path; a false return means the event was dropped.
type PaymentPublisher interface {
	Publish(event PaymentEvent) bool
}
