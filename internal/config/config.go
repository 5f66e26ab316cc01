// Package config handles configuration loading and defaults for dailyfocus.
// Configuration is loaded from XDG-compliant paths (typically
// ~/.config/dailyfocus/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/fsutil"
	"dailyfocus/internal/validation"

	"gopkg.in/yaml.v3"
)

// EnvDataDir overrides the data directory when set.
const EnvDataDir = "DAILYFOCUS_DATA_DIR"

const appDirName = "dailyfocus"

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.dailyfocus)
	DataDir string `yaml:"data_dir,omitempty"`

	// Timezone names the IANA zone date-keys are computed in ("" or "Local" for the system zone)
	Timezone string `yaml:"timezone,omitempty"`

	Storage StorageConfig `yaml:"storage,omitempty"`

	Log LogConfig `yaml:"log,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Notifications configures desktop notifications
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
}

// StorageConfig selects where collections are persisted.
type StorageConfig struct {
	// Backend is "file" (one JSON file per collection) or "sqlite"
	Backend string `yaml:"backend,omitempty" validate:"oneof=file sqlite"`

	// SQLitePath overrides the database location (default <data_dir>/dailyfocus.db)
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" validate:"oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" validate:"oneof=console json"`

	// Output is a file path, "stderr", or "" for <data_dir>/dailyfocus.log
	Output string `yaml:"output,omitempty"`
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	// Enabled sends a notification when a pomodoro phase finishes
	Enabled bool `yaml:"enabled,omitempty"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty" validate:"omitempty,hexcolor"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty" validate:"omitempty,hexcolor"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty" validate:"omitempty,hexcolor"`

	// Background color (hex)
	Background string `yaml:"background,omitempty" validate:"omitempty,hexcolor"`

	// Text color (hex)
	Text string `yaml:"text,omitempty" validate:"omitempty,hexcolor"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	NextPane string `yaml:"next_pane,omitempty"` // default: "tab"
	Pane1    string `yaml:"pane_1,omitempty"`    // default: "1"
	Pane2    string `yaml:"pane_2,omitempty"`    // default: "2"
	Pane3    string `yaml:"pane_3,omitempty"`    // default: "3"
	Pane4    string `yaml:"pane_4,omitempty"`    // default: "4"
	Pane5    string `yaml:"pane_5,omitempty"`    // default: "5"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Task keys
	AddTask       string `yaml:"add_task,omitempty"`       // default: "a"
	ToggleTask    string `yaml:"toggle_task,omitempty"`    // default: "d,enter,space"
	DeleteTask    string `yaml:"delete_task,omitempty"`    // default: "x"
	MoveUp        string `yaml:"move_up,omitempty"`        // default: "K,shift+up"
	MoveDown      string `yaml:"move_down,omitempty"`      // default: "J,shift+down"
	Search        string `yaml:"search,omitempty"`         // default: "/"
	HideCompleted string `yaml:"hide_completed,omitempty"` // default: "h"

	// Habit keys
	AddHabit    string `yaml:"add_habit,omitempty"`    // default: "a"
	ToggleHabit string `yaml:"toggle_habit,omitempty"` // default: "d,enter,space"
	EditTarget  string `yaml:"edit_target,omitempty"`  // default: "t"

	// Focus timer keys
	ToggleTimer   string `yaml:"toggle_timer,omitempty"`   // default: "space,enter"
	CompleteTimer string `yaml:"complete_timer,omitempty"` // default: "c"
	ResetTimer    string `yaml:"reset_timer,omitempty"`    // default: "r"
	SwitchPhase   string `yaml:"switch_phase,omitempty"`   // default: "s"

	// Calendar keys
	PrevMonth string `yaml:"prev_month,omitempty"` // default: "[,p"
	NextMonth string `yaml:"next_month,omitempty"` // default: "],n"
	Today     string `yaml:"today,omitempty"`      // default: "t"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"

	// Undo/Redo keys
	Undo string `yaml:"undo,omitempty"` // default: "ctrl+z,u"
	Redo string `yaml:"redo,omitempty"` // default: "ctrl+y"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting items
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// ShowOnboarding shows welcome screen on first run
	ShowOnboarding bool `yaml:"show_onboarding,omitempty"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty" validate:"gte=0,max=400"` // default: 100
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		Timezone: "Local",
		Storage: StorageConfig{
			Backend: "file",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 100,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appDirName
	}
	return filepath.Join(home, "."+appDirName)
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// Path returns the config file location: override when set, else the XDG path.
func Path(override string) string {
	if override != "" {
		return expandHome(override)
	}
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the default config file, merging with defaults.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads configuration from path (or the default location when path
// is empty), merging with defaults. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	path = Path(path)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.merge(data); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No config file, use defaults
		default:
			return nil, err
		}
	}

	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	c.mergeFromYAML(&userCfg, &doc)
	return nil
}

// Validate checks enumerations, colors and the timezone.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return datekey.LoadLocation(c.Timezone)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	setString(&c.DataDir, other.DataDir)
	setString(&c.Timezone, other.Timezone)

	setString(&c.Storage.Backend, other.Storage.Backend)
	setString(&c.Storage.SQLitePath, other.Storage.SQLitePath)

	setString(&c.Log.Level, other.Log.Level)
	setString(&c.Log.Format, other.Log.Format)
	setString(&c.Log.Output, other.Log.Output)

	setString(&c.Theme.Primary, other.Theme.Primary)
	setString(&c.Theme.Accent, other.Theme.Accent)
	setString(&c.Theme.Muted, other.Theme.Muted)
	setString(&c.Theme.Background, other.Theme.Background)
	setString(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	for _, pair := range []struct {
		dst *string
		src string
	}{
		{&k.Quit, o.Quit}, {&k.Help, o.Help}, {&k.NextPane, o.NextPane},
		{&k.Pane1, o.Pane1}, {&k.Pane2, o.Pane2}, {&k.Pane3, o.Pane3}, {&k.Pane4, o.Pane4}, {&k.Pane5, o.Pane5},
		{&k.Up, o.Up}, {&k.Down, o.Down}, {&k.Top, o.Top}, {&k.Bottom, o.Bottom},
		{&k.AddTask, o.AddTask}, {&k.ToggleTask, o.ToggleTask}, {&k.DeleteTask, o.DeleteTask},
		{&k.MoveUp, o.MoveUp}, {&k.MoveDown, o.MoveDown}, {&k.Search, o.Search}, {&k.HideCompleted, o.HideCompleted},
		{&k.AddHabit, o.AddHabit}, {&k.ToggleHabit, o.ToggleHabit}, {&k.EditTarget, o.EditTarget},
		{&k.ToggleTimer, o.ToggleTimer}, {&k.CompleteTimer, o.CompleteTimer}, {&k.ResetTimer, o.ResetTimer}, {&k.SwitchPhase, o.SwitchPhase},
		{&k.PrevMonth, o.PrevMonth}, {&k.NextMonth, o.NextMonth}, {&k.Today, o.Today},
		{&k.Confirm, o.Confirm}, {&k.Cancel, o.Cancel}, {&k.Undo, o.Undo}, {&k.Redo, o.Redo},
	} {
		setString(pair.dst, pair.src)
	}

	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a node tree presence is unknown; keep the default booleans.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "show_onboarding") {
		c.UX.ShowOnboarding = other.UX.ShowOnboarding
	}
	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to path (or the default location).
func (c *Config) Save(path string) error {
	path = Path(path)
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir != "" {
		return expandHome(c.DataDir)
	}
	return defaultDataDir()
}

// SQLitePath returns the resolved database path.
func (c *Config) SQLitePath() string {
	if c.Storage.SQLitePath != "" {
		return expandHome(c.Storage.SQLitePath)
	}
	return filepath.Join(c.GetDataDir(), appDirName+".db")
}

// LogPath returns where the log is written: a file path, or "stderr".
func (c *Config) LogPath() string {
	if c.Log.Output != "" {
		if c.Log.Output == "stderr" || c.Log.Output == "stdout" {
			return c.Log.Output
		}
		return expandHome(c.Log.Output)
	}
	return filepath.Join(c.GetDataDir(), appDirName+".log")
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}

	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
