package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the config lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvDataDir, "")
	return dir
}

func writeConfig(t *testing.T, xdg, content string) string {
	t.Helper()
	dir := filepath.Join(xdg, "dailyfocus")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v, want info/console", cfg.Log)
	}
	if !cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Theme.Primary != "#7C3AED" {
		t.Errorf("Theme.Primary = %q, want #7C3AED", cfg.Theme.Primary)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
data_dir: /custom/data
timezone: UTC
storage:
  backend: sqlite
log:
  level: debug
theme:
  primary: "#FF0000"
  accent: "#00FF00"
keys:
  add_task: "n"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want console", cfg.Log.Format)
	}
	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	if cfg.Keys.AddTask != "n" {
		t.Errorf("Keys.AddTask = %q, want n", cfg.Keys.AddTask)
	}

	// Muted should still be default
	if cfg.Theme.Muted != "#6B7280" {
		t.Errorf("Theme.Muted = %q, want #6B7280", cfg.Theme.Muted)
	}

	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location() = %v, %v; want UTC", loc, err)
	}
}

func TestLoadFrom_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("data_dir: /from/flag\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DataDir != "/from/flag" {
		t.Errorf("DataDir = %q, want /from/flag", cfg.DataDir)
	}
}

func TestLoad_EnvOverridesDataDir(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, "data_dir: /from/file\n")
	t.Setenv(EnvDataDir, "/from/env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", cfg.DataDir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad backend", "storage:\n  backend: mongo\n", "backend"},
		{"bad level", "log:\n  level: loud\n", "level"},
		{"bad format", "log:\n  format: xml\n", "format"},
		{"bad color", "theme:\n  primary: red\n", "primary"},
		{"bad timezone", "timezone: Mars/Olympus\n", "timezone"},
		{"bad yaml", "theme: [\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xdg := isolate(t)
			writeConfig(t, xdg, tt.content)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme: ThemeConfig{
			Primary: "#123456",
		},
		Keys: KeysConfig{Undo: "z"},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#123456" {
		t.Errorf("Theme.Primary = %q, want #123456", base.Theme.Primary)
	}
	if base.Keys.Undo != "z" {
		t.Errorf("Keys.Undo = %q, want z", base.Keys.Undo)
	}

	// Accent should remain default
	if base.Theme.Accent != "#10B981" {
		t.Errorf("Theme.Accent = %q, want #10B981", base.Theme.Accent)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
theme:
  primary: "#FF0000"
notifications:
  sound: true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Notifications.Sound {
		t.Errorf("Notifications.Sound = %v, want true", cfg.Notifications.Sound)
	}

	// Omitted keys must not clobber defaults.
	if !cfg.Notifications.Enabled {
		t.Errorf("Notifications.Enabled = %v, want true", cfg.Notifications.Enabled)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want true", cfg.UX.ConfirmDeletions)
	}
	if !cfg.UX.ShowOnboarding {
		t.Errorf("UX.ShowOnboarding = %v, want true", cfg.UX.ShowOnboarding)
	}
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
ux:
  confirm_deletions: false
notifications:
  enabled: false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want false", cfg.UX.ConfirmDeletions)
	}
	if cfg.Notifications.Enabled {
		t.Errorf("Notifications.Enabled = %v, want false", cfg.Notifications.Enabled)
	}
	if !cfg.UX.ShowOnboarding {
		t.Errorf("UX.ShowOnboarding = %v, want true", cfg.UX.ShowOnboarding)
	}
}

func TestResolvedPaths(t *testing.T) {
	cfg := &Config{DataDir: "/data"}

	if got := cfg.GetDataDir(); got != "/data" {
		t.Errorf("GetDataDir() = %q, want /data", got)
	}
	if got := cfg.SQLitePath(); got != filepath.Join("/data", "dailyfocus.db") {
		t.Errorf("SQLitePath() = %q", got)
	}
	if got := cfg.LogPath(); got != filepath.Join("/data", "dailyfocus.log") {
		t.Errorf("LogPath() = %q", got)
	}

	cfg.Storage.SQLitePath = "/db/x.db"
	cfg.Log.Output = "stderr"
	if got := cfg.SQLitePath(); got != "/db/x.db" {
		t.Errorf("SQLitePath() = %q, want /db/x.db", got)
	}
	if got := cfg.LogPath(); got != "stderr" {
		t.Errorf("LogPath() = %q, want stderr", got)
	}

	if got := (&Config{}).GetDataDir(); filepath.Base(got) != ".dailyfocus" {
		t.Errorf("GetDataDir() = %q, want to end with .dailyfocus", got)
	}
}

func TestGetDataDir_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home directory")
	}

	tests := []struct {
		dataDir string
		want    string
	}{
		{"~", home},
		{"~/mydata", filepath.Join(home, "mydata")},
	}
	for _, tt := range tests {
		cfg := &Config{DataDir: tt.dataDir}
		if got := cfg.GetDataDir(); got != tt.want {
			t.Errorf("GetDataDir(%q) = %q, want %q", tt.dataDir, got, tt.want)
		}
	}
}

func TestSave(t *testing.T) {
	xdg := isolate(t)

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Theme.Primary = "#ABCDEF"

	if err := cfg.Save(""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(xdg, "dailyfocus", "config.yaml")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.DataDir != "/saved/path" {
		t.Errorf("loaded DataDir = %q, want /saved/path", loaded.DataDir)
	}
	if loaded.Theme.Primary != "#ABCDEF" {
		t.Errorf("loaded Theme.Primary = %q, want #ABCDEF", loaded.Theme.Primary)
	}
}
