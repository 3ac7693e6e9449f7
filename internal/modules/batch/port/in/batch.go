package in

import (
	"context"

	"vgdesk/internal/modules/batch/dto"
)

type Usecase interface {
	// SetFiles replaces the file list and releases the previous results.
	SetFiles(ctx context.Context, files []dto.FileInput) error
	SetQuery(query string)
	Submit(ctx context.Context) (dto.StateOutput, error)
	Clear(ctx context.Context) error
	State() dto.StateOutput
	// Recover reads what an interrupted batch left behind.
	Recover(ctx context.Context) (dto.CheckpointOutput, bool, error)
	// OnProgress registers a listener for every progress update and returns
	// a func that removes it.
	OnProgress(listener func(dto.ProgressOutput)) func()
	Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error)
}
