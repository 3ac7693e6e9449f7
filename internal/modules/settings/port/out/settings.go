package out

import (
	"context"

	"vgdesk/internal/modules/settings/domain"
)

// Store reads and writes settings for one scope; an empty userID is the guest.
type Store interface {
	Load(ctx context.Context, userID string) (domain.Settings, bool, error)
	Save(ctx context.Context, userID string, settings domain.Settings) error
}

// Viewer names the signed-in user, or "" for a guest.
type Viewer interface {
	CurrentUserID() string
}
