package out

import (
	"context"

	"vgdesk/internal/modules/identity/domain"
	identityout "vgdesk/internal/modules/identity/port/out"
	"vgdesk/internal/platform/kv"
)

type KVUserStore struct {
	store kv.Store
}

func NewKVUserStore(store kv.Store) identityout.UserStore {
	return &KVUserStore{store: store}
}

func (s *KVUserStore) LoadUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if _, err := kv.GetJSON(ctx, s.store, kv.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *KVUserStore) SaveUsers(ctx context.Context, users []domain.User) error {
	return kv.SetJSON(ctx, s.store, kv.KeyUsers, users)
}

type KVSessionStore struct {
	store kv.Store
}

func NewKVSessionStore(store kv.Store) identityout.SessionStore {
	return &KVSessionStore{store: store}
}

func (s *KVSessionStore) LoadSession(ctx context.Context) (domain.Session, bool, error) {
	session := domain.Session{}
	found, err := kv.GetJSON(ctx, s.store, kv.KeySession, &session)
	if err != nil || !found || session.UserID == "" {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

func (s *KVSessionStore) SaveSession(ctx context.Context, session domain.Session) error {
	return kv.SetJSON(ctx, s.store, kv.KeySession, session)
}

func (s *KVSessionStore) ClearSession(ctx context.Context) error {
	return s.store.Delete(ctx, kv.KeySession)
}

// KVFlusher saves the underlying store once the identity keys are written.
type KVFlusher struct {
	store kv.Store
}

func NewKVFlusher(store kv.Store) identityout.Flusher {
	return &KVFlusher{store: store}
}

func (f *KVFlusher) Flush(ctx context.Context) error {
	return f.store.Save(ctx)
}
