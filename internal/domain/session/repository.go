package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Update for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Repository stores live sessions. Update runs fn against a private copy and stores
// the result only when fn returns nil, so a rejected operation leaves the stored
// session untouched.
type Repository interface {
	Create(ctx context.Context, item Session) error
	GetByID(ctx context.Context, id string) (Session, bool, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}
