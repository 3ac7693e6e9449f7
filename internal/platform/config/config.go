package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultEndpoint = "https://misbahkhan-r2-tuning.hf.space/predict"

const (
	StorageAuto    = "auto"
	StorageDesktop = "desktop"
	StorageLocal   = "local"
	StorageS3      = "s3"
	StorageMemory  = "memory"
)

type S3 struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`

	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

type Config struct {
	DataDir      string        `yaml:"-"`
	DBPath       string        `yaml:"-"`
	DesktopPath  string        `yaml:"-"`
	Endpoint     string        `yaml:"endpoint"`
	Storage      string        `yaml:"storage"`
	DesktopShell bool          `yaml:"desktop_shell"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	PlaybackAddr string        `yaml:"playback_addr"`
	LogLevel     string        `yaml:"log_level"`
	LogJSON      bool          `yaml:"log_json"`
	VideoExts    []string      `yaml:"video_exts"`
	S3           S3            `yaml:"s3"`
}

// New resolves configuration for dataDir. Precedence is defaults, then
// <dataDir>/vgdesk.yaml, then environment (including a .env file).
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	_ = godotenv.Load(filepath.Join(dataDir, ".env"))

	cfg := Config{
		Endpoint:     DefaultEndpoint,
		Storage:      StorageAuto,
		PlaybackAddr: "127.0.0.1:0",
		LogLevel:     "info",
		VideoExts:    []string{".mp4", ".mov", ".avi", ".mkv", ".webm"},
	}
	if err := cfg.loadFile(filepath.Join(dataDir, "vgdesk.yaml")); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	cfg.DataDir = dataDir
	cfg.DBPath = filepath.Join(dataDir, ".vgdesk", "app-store.db")
	cfg.DesktopPath = filepath.Join(dataDir, ".vgdesk", ".app-data.dat")

	switch cfg.Storage {
	case StorageAuto, StorageDesktop, StorageLocal, StorageS3, StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	if cfg.Storage == StorageS3 && cfg.S3.Bucket == "" {
		return Config{}, fmt.Errorf("s3 storage requires a bucket")
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Endpoint = getEnv("VGDESK_ENDPOINT", c.Endpoint)
	c.Storage = strings.ToLower(getEnv("VGDESK_STORAGE", c.Storage))
	c.PlaybackAddr = getEnv("VGDESK_PLAYBACK_ADDR", c.PlaybackAddr)
	c.LogLevel = getEnv("VGDESK_LOG_LEVEL", c.LogLevel)
	c.S3.Bucket = getEnv("VGDESK_S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnv("VGDESK_S3_REGION", c.S3.Region)
	c.S3.Endpoint = getEnv("VGDESK_S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Prefix = getEnv("VGDESK_S3_PREFIX", c.S3.Prefix)
	c.S3.AccessKey = getEnv("VGDESK_S3_ACCESS_KEY", c.S3.AccessKey)
	c.S3.SecretKey = getEnv("VGDESK_S3_SECRET_KEY", c.S3.SecretKey)
	if v := getEnv("VGDESK_VIDEO_EXTS", ""); v != "" {
		c.VideoExts = strings.Split(v, ",")
	}
	if v, ok := os.LookupEnv("VGDESK_DESKTOP_SHELL"); ok {
		c.DesktopShell = desktopShell(v)
	}
	if v := os.Getenv("VGDESK_LOG_JSON"); v == "1" || strings.EqualFold(v, "true") {
		c.LogJSON = true
	}
	if v := os.Getenv("VGDESK_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse VGDESK_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

// desktopShell treats the marker as set unless it parses as false.
func desktopShell(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return true
	}
	return b
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
