package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
)

// FileStore keeps every key in one JSON document on disk. Writes stay in
// memory until Save.
type FileStore struct {
	path   string
	mu     sync.Mutex
	values map[string]json.RawMessage
	dirty  bool
}

func NewFileStore(path string) (*FileStore, error) {
	return NewFileStoreWithLogger(path, nil)
}

// NewFileStoreWithLogger is NewFileStore reporting a corrupt document on
// logger. The unreadable file is copied to <path>.corrupt before the store
// starts over empty.
func NewFileStoreWithLogger(path string, logger hclog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &FileStore{path: path, values: map[string]json.RawMessage{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	decoded := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		backup := path + ".corrupt"
		if writeErr := os.WriteFile(backup, raw, 0o600); writeErr != nil {
			return nil, fmt.Errorf("keep corrupt store file: %w", writeErr)
		}
		logger.Warn("store file is corrupt, starting empty", "path", path, "backup", backup, "error", err)
		return s, nil
	}
	s.values = decoded
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sanitize(s.values[key]), nil
}

func (s *FileStore) Set(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append(json.RawMessage(nil), value...)
	s.dirty = true
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
	return nil
}

func (s *FileStore) Save(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	payload, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	s.dirty = false
	return nil
}
