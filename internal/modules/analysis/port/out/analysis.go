package out

import (
	"context"

	"vgdesk/internal/modules/analysis/domain"
)

// Inference sends one video and query to the remote model.
type Inference interface {
	Predict(ctx context.Context, video domain.VideoFile, query string) (domain.Results, error)
}

// ObjectURLs mints and releases playback handles for local files.
type ObjectURLs interface {
	Create(path string) (string, error)
	Revoke(url string) bool
}

type HistoryRecorder interface {
	Record(ctx context.Context, userID, fileName, query string) error
}

type Viewer interface {
	CurrentUserID() string
}

type Launcher interface {
	Open(ctx context.Context, target string) error
}

type ReportWriter interface {
	Write(ctx context.Context, path string, report domain.Report) (string, error)
}
