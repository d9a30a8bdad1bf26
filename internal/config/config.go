// ABOUTME: fitlog configuration management with backend selection.
// ABOUTME: Loads JSON settings through viper with FITLOG_* env overrides and opens storage.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/fitlog/internal/i18n"
	"github.com/harperreed/fitlog/internal/logging"
	"github.com/harperreed/fitlog/internal/scroll"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Backends understood by OpenStorage.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
)

// EnvPrefix prefixes environment overrides, e.g. FITLOG_BACKEND.
const EnvPrefix = "FITLOG"

// Config stores fitlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger" or "charm".
	Backend string `json:"backend,omitempty" mapstructure:"backend" validate:"omitempty,oneof=sqlite badger charm"`

	// DataDir is the root directory for data storage.
	// SQLite puts fitlog.db here, badger uses a badger/ folder.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fitlog.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// Locale picks the language of validation messages.
	Locale string `json:"locale,omitempty" mapstructure:"locale" validate:"omitempty,oneof=en tr"`

	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	Scroll scroll.Config `json:"scroll" mapstructure:"scroll"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLocale returns the configured locale, defaulting to English.
func (c *Config) GetLocale() string {
	if c.Locale == "" {
		return i18n.DefaultLocale
	}
	return c.Locale
}

// GetLogLevel returns the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return logging.DefaultLevel
	}
	return c.LogLevel
}

// Validate checks enumerated settings and scroll sizes.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config value for %s: %q", strings.ToLower(fe.Namespace()), fmt.Sprint(fe.Value()))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(log *zap.Logger) (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	var (
		repo storage.Repository
		err  error
	)
	switch backend {
	case BackendSQLite:
		var db *storage.DB
		db, err = storage.Open(filepath.Join(dataDir, "fitlog.db"), storage.WithLogger(log))
		if err == nil {
			repo = db
		}
	case BackendBadger:
		var bs *storage.BadgerStore
		bs, err = storage.OpenBadger(filepath.Join(dataDir, "badger"), log)
		if err == nil {
			repo = bs
		}
	case BackendCharm:
		var cs *storage.CharmStore
		cs, err = storage.OpenCharm(log)
		if err == nil {
			repo = cs
		}
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", backend, err)
	}
	return repo, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitlog", "config.json")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(GetConfigPath())

	defaults := scroll.DefaultConfig()
	v.SetDefault("backend", "")
	v.SetDefault("data_dir", "")
	v.SetDefault("locale", "")
	v.SetDefault("log_level", "")
	v.SetDefault("scroll.recent_limit", defaults.RecentLimit)
	v.SetDefault("scroll.older_batch_size", defaults.OlderBatchSize)
	v.SetDefault("scroll.window_radius", defaults.WindowRadius)
	v.SetDefault("scroll.trailing_threshold", defaults.TrailingThreshold)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config from disk, applying defaults and FITLOG_* overrides.
// A missing file yields the defaults.
func Load() (*Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", GetConfigPath(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
