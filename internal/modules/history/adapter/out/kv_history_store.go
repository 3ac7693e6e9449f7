package out

import (
	"context"

	"vgdesk/internal/modules/history/domain"
	historyout "vgdesk/internal/modules/history/port/out"
	"vgdesk/internal/platform/kv"
)

type KVHistoryStore struct {
	store kv.Store
}

func NewKVHistoryStore(store kv.Store) historyout.Store {
	return &KVHistoryStore{store: store}
}

func (s *KVHistoryStore) Load(ctx context.Context) ([]domain.Item, error) {
	items := []domain.Item{}
	if _, err := kv.GetJSON(ctx, s.store, kv.KeyHistory, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *KVHistoryStore) Save(ctx context.Context, items []domain.Item) error {
	if err := kv.SetJSON(ctx, s.store, kv.KeyHistory, items); err != nil {
		return err
	}
	return s.store.Save(ctx)
}

func (s *KVHistoryStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, kv.KeyHistory); err != nil {
		return err
	}
	return s.store.Save(ctx)
}
