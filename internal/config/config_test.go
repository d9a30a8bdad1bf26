// ABOUTME: Tests for fitlog configuration management.
// ABOUTME: Covers load, save, env overrides, validation, backend selection and path expansion.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
	if got := cfg.GetLocale(); got != "en" {
		t.Errorf("GetLocale() = %q, want %q", got, "en")
	}
	if got := cfg.GetLogLevel(); got != "warn" {
		t.Errorf("GetLogLevel() = %q, want %q", got, "warn")
	}
	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/fitlog-test"}
	if got := cfg.GetDataDir(); got != "/tmp/fitlog-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/fitlog-test")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/fitlog", filepath.Join(home, "data/fitlog")},
		{"data/fitlog", "data/fitlog"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := useConfigHome(t)
	want := filepath.Join(dir, "fitlog", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	useConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("Expected empty backend and data dir, got %+v", cfg)
	}
	if cfg.Scroll.RecentLimit != 100 || cfg.Scroll.OlderBatchSize != 50 || cfg.Scroll.WindowRadius != 2 {
		t.Errorf("Expected default scroll sizes, got %+v", cfg.Scroll)
	}
}

func TestSaveAndLoad(t *testing.T) {
	useConfigHome(t)

	cfg := &Config{
		Backend: "badger",
		DataDir: "/tmp/fitlog-data",
		Locale:  "tr",
	}
	cfg.Scroll.RecentLimit = 40
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Backend != "badger" {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Backend, "badger")
	}
	if loaded.DataDir != "/tmp/fitlog-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/fitlog-data")
	}
	if loaded.Locale != "tr" {
		t.Errorf("Locale mismatch: got %q, want %q", loaded.Locale, "tr")
	}
	if loaded.Scroll.RecentLimit != 40 {
		t.Errorf("RecentLimit = %d, want 40", loaded.Scroll.RecentLimit)
	}
	if loaded.Scroll.OlderBatchSize != 50 {
		t.Errorf("OlderBatchSize = %d, want default 50", loaded.Scroll.OlderBatchSize)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nonexistent"))

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nonexistent", "fitlog")); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := useConfigHome(t)
	configDir := filepath.Join(dir, "fitlog")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	useConfigHome(t)
	if err := (&Config{Backend: "sqlite"}).Save(); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FITLOG_BACKEND", "badger")
	t.Setenv("FITLOG_LOG_LEVEL", "debug")
	t.Setenv("FITLOG_SCROLL_OLDER_BATCH_SIZE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "badger" {
		t.Errorf("Backend = %q, want env override %q", cfg.Backend, "badger")
	}
	if cfg.GetLogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.GetLogLevel(), "debug")
	}
	if cfg.Scroll.OlderBatchSize != 25 {
		t.Errorf("OlderBatchSize = %d, want 25", cfg.Scroll.OlderBatchSize)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	useConfigHome(t)
	t.Setenv("FITLOG_BACKEND", "postgres")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "postgres") {
		t.Errorf("error %q should name the bad value", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"charm", Config{Backend: "charm"}, false},
		{"bad locale", Config{Locale: "fr"}, true},
		{"bad level", Config{LogLevel: "verbose"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Scroll sizes come from defaults in Load.
			tt.cfg.Scroll.RecentLimit = 100
			tt.cfg.Scroll.OlderBatchSize = 50
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Backend: "sqlite", DataDir: dir}

	repo, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(dir, "fitlog.db")); os.IsNotExist(err) {
		t.Error("Expected fitlog.db to be created")
	}
}

func TestOpenStorageBadger(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Backend: "badger", DataDir: dir}

	repo, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() for badger failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(dir, "badger")); os.IsNotExist(err) {
		t.Error("Expected badger directory to be created")
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}

	repo, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer repo.Close()
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}
	if _, err := cfg.OpenStorage(nil); err == nil {
		t.Error("Expected error for invalid backend")
	}
}
