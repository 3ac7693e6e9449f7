package in

import (
	"context"

	"vgdesk/internal/modules/analysis/domain"
	"vgdesk/internal/modules/analysis/dto"
)

type Usecase interface {
	// SetFile replaces the selected video; nil clears it.
	SetFile(ctx context.Context, input *dto.FileInput) error
	SetQuery(query string)
	Submit(ctx context.Context) (dto.StateOutput, error)
	Clear(ctx context.Context)
	State() dto.StateOutput
	// SeekTarget is the playback URL positioned on moment.
	SeekTarget(moment domain.Moment) (string, bool)
	Play(ctx context.Context, input dto.PlayInput) (dto.PlayOutput, error)
	ExportReport(ctx context.Context, input dto.ExportInput) (string, error)
}
