package out

import (
	"context"

	analysisdomain "vgdesk/internal/modules/analysis/domain"
	"vgdesk/internal/modules/batch/domain"
)

// Inference has the same method set as the single-video port so one client
// serves both stores.
type Inference interface {
	Predict(ctx context.Context, video analysisdomain.VideoFile, query string) (analysisdomain.Results, error)
}

type ObjectURLs interface {
	Create(path string) (string, error)
	Revoke(url string) bool
}

type CheckpointStore interface {
	Load(ctx context.Context) (domain.Checkpoint, bool, error)
	Save(ctx context.Context, checkpoint domain.Checkpoint) error
	Clear(ctx context.Context) error
}

type Launcher interface {
	Open(ctx context.Context, target string) error
}
