package out

import (
	"context"

	"vgdesk/internal/modules/settings/domain"
	settingsout "vgdesk/internal/modules/settings/port/out"
	"vgdesk/internal/platform/kv"
)

type KVSettingsStore struct {
	store kv.Store
}

func NewKVSettingsStore(store kv.Store) settingsout.Store {
	return &KVSettingsStore{store: store}
}

func (s *KVSettingsStore) Load(ctx context.Context, userID string) (domain.Settings, bool, error) {
	settings := domain.Settings{}
	found, err := kv.GetJSON(ctx, s.store, kv.SettingsKey(userID), &settings)
	if err != nil || !found {
		return domain.Settings{}, false, err
	}
	return settings, true, nil
}

func (s *KVSettingsStore) Save(ctx context.Context, userID string, settings domain.Settings) error {
	if err := kv.SetJSON(ctx, s.store, kv.SettingsKey(userID), settings); err != nil {
		return err
	}
	return s.store.Save(ctx)
}
