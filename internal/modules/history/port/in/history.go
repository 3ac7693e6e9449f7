package in

import (
	"context"

	"vgdesk/internal/modules/history/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.ItemOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.ItemOutput, error)
	Clear(ctx context.Context) error
}
