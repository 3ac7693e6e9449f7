package usecase

import (
	"context"
	"sync"

	"vgdesk/internal/modules/history/domain"
	"vgdesk/internal/modules/history/dto"
	historyin "vgdesk/internal/modules/history/port/in"
	historyout "vgdesk/internal/modules/history/port/out"
	"vgdesk/internal/platform/clock"
	"vgdesk/internal/platform/id"
)

type Interactor struct {
	clock clock.Clock
	idGen id.Generator
	store historyout.Store
	mu    sync.Mutex
}

func NewInteractor(clock clock.Clock, idGen id.Generator, store historyout.Store) historyin.Usecase {
	return &Interactor{clock: clock, idGen: idGen, store: store}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) (dto.ItemOutput, error) {
	status := domain.Status(input.Status)
	if status == "" {
		status = domain.StatusCompleted
	}
	item := domain.Item{
		ID:          i.idGen.New(),
		FileName:    input.FileName,
		Query:       input.Query,
		AnomalyType: domain.AnomalyType(input.Query),
		Time:        i.clock.Now(),
		Status:      status,
	}
	if input.UserID != "" {
		userID := input.UserID
		item.UserID = &userID
	}

	// Read-modify-write of the whole list; serialise within the process.
	i.mu.Lock()
	defer i.mu.Unlock()
	items, err := i.store.Load(ctx)
	if err != nil {
		return dto.ItemOutput{}, err
	}
	if err := i.store.Save(ctx, domain.Prepend(items, item)); err != nil {
		return dto.ItemOutput{}, err
	}
	return toOutput(item), nil
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) ([]dto.ItemOutput, error) {
	items, err := i.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemOutput, 0, len(items))
	for _, item := range items {
		if input.UserID != "" && (item.UserID == nil || *item.UserID != input.UserID) {
			continue
		}
		out = append(out, toOutput(item))
		if input.Limit > 0 && len(out) == input.Limit {
			break
		}
	}
	return out, nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.store.Clear(ctx)
}

func toOutput(item domain.Item) dto.ItemOutput {
	out := dto.ItemOutput{
		ID:          item.ID,
		FileName:    item.FileName,
		Query:       item.Query,
		AnomalyType: item.AnomalyType,
		Time:        item.Time,
		Status:      string(item.Status),
	}
	if item.UserID != nil {
		out.UserID = *item.UserID
	}
	return out
}
