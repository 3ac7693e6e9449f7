package out

import (
	"context"

	"vgdesk/internal/modules/batch/domain"
	batchout "vgdesk/internal/modules/batch/port/out"
	"vgdesk/internal/platform/kv"
)

// KVCheckpointStore keeps the in-progress batch under batchProcessingProgress.
type KVCheckpointStore struct {
	store kv.Store
}

func NewKVCheckpointStore(store kv.Store) batchout.CheckpointStore {
	return &KVCheckpointStore{store: store}
}

func (s *KVCheckpointStore) Load(ctx context.Context) (domain.Checkpoint, bool, error) {
	checkpoint := domain.Checkpoint{}
	found, err := kv.GetJSON(ctx, s.store, kv.KeyBatchProgress, &checkpoint)
	if err != nil || !found {
		return domain.Checkpoint{}, false, err
	}
	return checkpoint, true, nil
}

func (s *KVCheckpointStore) Save(ctx context.Context, checkpoint domain.Checkpoint) error {
	if err := kv.SetJSON(ctx, s.store, kv.KeyBatchProgress, checkpoint); err != nil {
		return err
	}
	return s.store.Save(ctx)
}

func (s *KVCheckpointStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, kv.KeyBatchProgress); err != nil {
		return err
	}
	return s.store.Save(ctx)
}
