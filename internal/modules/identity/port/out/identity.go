package out

import (
	"context"

	"vgdesk/internal/modules/identity/domain"
)

type UserStore interface {
	LoadUsers(ctx context.Context) ([]domain.User, error)
	SaveUsers(ctx context.Context, users []domain.User) error
}

type SessionStore interface {
	LoadSession(ctx context.Context) (domain.Session, bool, error)
	SaveSession(ctx context.Context, session domain.Session) error
	ClearSession(ctx context.Context) error
}

// Flusher persists pending user and session writes in one step.
type Flusher interface {
	Flush(ctx context.Context) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
