package kv

import (
	"context"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"vgdesk/internal/platform/config"
)

// BackendFor reports which backend cfg selects. "auto" means desktop when
// running inside the desktop shell and local otherwise.
func BackendFor(cfg config.Config) string {
	if cfg.Storage == "" || cfg.Storage == config.StorageAuto {
		if cfg.DesktopShell {
			return config.StorageDesktop
		}
		return config.StorageLocal
	}
	return cfg.Storage
}

// Resolver opens the configured Store on first use and hands out the same
// instance afterwards.
type Resolver struct {
	cfg    config.Config
	logger hclog.Logger
	once  sync.Once
	store Store
	err   error
}

func NewResolver(cfg config.Config, logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{cfg: cfg, logger: logger}
}

func (r *Resolver) Store(ctx context.Context) (Store, error) {
	r.once.Do(func() {
		r.store, r.err = open(ctx, r.cfg, r.logger)
	})
	return r.store, r.err
}

// Backend is the backend name this resolver opens.
func (r *Resolver) Backend() string {
	return BackendFor(r.cfg)
}

func open(ctx context.Context, cfg config.Config, logger hclog.Logger) (Store, error) {
	switch backend := BackendFor(cfg); backend {
	case config.StorageDesktop:
		return NewFileStoreWithLogger(cfg.DesktopPath, logger)
	case config.StorageLocal:
		return NewSQLiteStore(cfg.DBPath)
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
