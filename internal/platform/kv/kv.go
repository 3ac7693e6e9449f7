// Package kv is the key/value persistence layer shared by every module.
// Values are JSON documents; a stored value that does not decode is reported
// as absent rather than as an error.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// Well-known keys.
const (
	KeyUsers         = "users"
	KeySession       = "session"
	KeyHistory       = "history"
	KeyBatchProgress = "batchProcessingProgress"
	KeySettingsGuest = "settings_guest"
)

// SettingsKey returns the settings key for userID, or the guest key when
// userID is empty.
func SettingsKey(userID string) string {
	if userID == "" {
		return KeySettingsGuest
	}
	return "settings_" + userID
}

// Store is the uniform persistence contract. Save flushes pending writes and
// is a no-op for backends whose writes are already durable.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	Save(ctx context.Context) error
}

// GetJSON decodes key into out, which must be a non-nil pointer. It reports
// false and leaves out untouched when the key is missing or the stored value
// is malformed.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, fmt.Errorf("decode %s: out must be a non-nil pointer", key)
	}
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return false, nil
	}
	target.Elem().Set(fresh.Elem())
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// sanitize drops values that are not valid JSON.
func sanitize(raw []byte) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	return json.RawMessage(raw)
}
