package out

import (
	"context"

	"vgdesk/internal/modules/history/domain"
)

type Store interface {
	Load(ctx context.Context) ([]domain.Item, error)
	Save(ctx context.Context, items []domain.Item) error
	Clear(ctx context.Context) error
}
