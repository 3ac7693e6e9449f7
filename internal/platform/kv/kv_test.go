package kv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	hclog "github.com/hashicorp/go-hclog"

	"vgdesk/internal/platform/config"
	"vgdesk/internal/platform/kv"
)

type record struct {
	Name string `json:"name"`
}

func exerciseStore(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()

	got := record{}
	found, err := kv.GetJSON(ctx, store, "missing", &got)
	if err != nil || found {
		t.Fatalf("expected missing key to be absent, found=%t err=%v", found, err)
	}
	if err := kv.SetJSON(ctx, store, "item", record{Name: "clip"}); err != nil {
		t.Fatalf("set item: %v", err)
	}
	found, err = kv.GetJSON(ctx, store, "item", &got)
	if err != nil || !found || got.Name != "clip" {
		t.Fatalf("expected item round trip, found=%t got=%+v err=%v", found, got, err)
	}
	if err := store.Delete(ctx, "item"); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	found, _ = kv.GetJSON(ctx, store, "item", &got)
	if found {
		t.Fatalf("expected deleted key to be absent")
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, kv.NewMemoryStore())
}

func TestMalformedValueIsAbsent(t *testing.T) {
	t.Parallel()
	store := kv.NewMemoryStore()
	if err := store.Set(context.Background(), "users", json.RawMessage(`{not json`)); err != nil {
		t.Fatalf("set raw: %v", err)
	}
	raw, err := store.Get(context.Background(), "users")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if raw != nil {
		t.Fatalf("expected nil for malformed value, got %s", raw)
	}
	var out []record
	found, err := kv.GetJSON(context.Background(), store, "users", &out)
	if err != nil || found {
		t.Fatalf("expected malformed value to decode as absent, found=%t err=%v", found, err)
	}
}

func TestGetJSONTypeMismatchIsAbsent(t *testing.T) {
	t.Parallel()
	store := kv.NewMemoryStore()
	if err := kv.SetJSON(context.Background(), store, "users", "a string"); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out []record
	found, err := kv.GetJSON(context.Background(), store, "users", &out)
	if err != nil || found {
		t.Fatalf("expected mismatched shape to be absent, found=%t err=%v", found, err)
	}
}

func TestFileStoreFlushesOnlyOnSave(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".app-data.dat")
	store, err := kv.NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	exerciseStore(t, store)

	if err := kv.SetJSON(context.Background(), store, "session", map[string]string{"userId": "u-1"}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	reopened, err := kv.NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if raw, _ := reopened.Get(context.Background(), "session"); raw != nil {
		t.Fatalf("unsaved write should not be on disk, got %s", raw)
	}
	if err := store.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	reopened, err = kv.NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen after save: %v", err)
	}
	session := map[string]string{}
	if found, _ := kv.GetJSON(context.Background(), reopened, "session", &session); !found || session["userId"] != "u-1" {
		t.Fatalf("expected persisted session, got %+v", session)
	}
}

func TestFileStoreCorruptDocumentIsKeptAside(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".app-data.dat")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &logs, Level: hclog.Warn})
	store, err := kv.NewFileStoreWithLogger(path, logger)
	if err != nil {
		t.Fatalf("corrupt file should not fail: %v", err)
	}
	if raw, _ := store.Get(context.Background(), "users"); raw != nil {
		t.Fatalf("expected empty store, got %s", raw)
	}
	if !strings.Contains(logs.String(), "store file is corrupt") {
		t.Fatalf("expected a corruption warning, got %q", logs.String())
	}

	if err := kv.SetJSON(context.Background(), store, "users", []record{{Name: "a"}}); err != nil {
		t.Fatalf("set users: %v", err)
	}
	if err := store.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	backup, err := os.ReadFile(path + ".corrupt")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != "garbage" {
		t.Fatalf("backup should hold the original bytes, got %q", backup)
	}
}

func TestSQLiteStorePrefixesKeys(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "nested", "app-store.db")
	store, err := kv.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)

	if err := kv.SetJSON(context.Background(), store, "history", []string{"a"}); err != nil {
		t.Fatalf("set history: %v", err)
	}
	reopened, err := kv.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()
	var history []string
	if found, _ := kv.GetJSON(context.Background(), reopened, "history", &history); !found || len(history) != 1 {
		t.Fatalf("expected durable write without save, got %v", history)
	}
}

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	raw, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(raw))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	raw, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = raw
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &awss3.DeleteObjectOutput{}, nil
}

func TestS3StoreUsesPrefixedObjectKeys(t *testing.T) {
	t.Parallel()
	api := &fakeObjects{objects: map[string][]byte{}}
	store := kv.NewS3StoreWithAPI(api, "bucket", "team")
	exerciseStore(t, store)
	if err := kv.SetJSON(context.Background(), store, "users", []record{{Name: "a"}}); err != nil {
		t.Fatalf("set users: %v", err)
	}
	if _, ok := api.objects["team/app-store/users.json"]; !ok {
		keys := make([]string, 0, len(api.objects))
		for k := range api.objects {
			keys = append(keys, k)
		}
		t.Fatalf("expected prefixed object key, got %s", strings.Join(keys, ","))
	}
}

func TestBackendFor(t *testing.T) {
	t.Parallel()
	cases := []struct {
		cfg  config.Config
		want string
	}{
		{config.Config{Storage: config.StorageAuto}, config.StorageLocal},
		{config.Config{Storage: config.StorageAuto, DesktopShell: true}, config.StorageDesktop},
		{config.Config{}, config.StorageLocal},
		{config.Config{Storage: config.StorageS3, DesktopShell: true}, config.StorageS3},
	}
	for _, tc := range cases {
		if got := kv.BackendFor(tc.cfg); got != tc.want {
			t.Fatalf("backend for %+v: expected %s, got %s", tc.cfg, tc.want, got)
		}
	}
}

func TestResolverOpensOnce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	r := kv.NewResolver(config.Config{Storage: config.StorageDesktop, DesktopPath: filepath.Join(dir, ".app-data.dat")}, nil)
	first, err := r.Store(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := r.Store(context.Background())
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same store instance")
	}
	if r.Backend() != config.StorageDesktop {
		t.Fatalf("unexpected backend %s", r.Backend())
	}
}

func TestSettingsKey(t *testing.T) {
	t.Parallel()
	if kv.SettingsKey("") != "settings_guest" || kv.SettingsKey("u-1") != "settings_u-1" {
		t.Fatalf("unexpected settings keys")
	}
}
