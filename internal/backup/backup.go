// Package backup manages timestamped snapshots of the persisted collections.
// Snapshots go through storage.Storage, so they work with every backend.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"dailyfocus/internal/fsutil"
	"dailyfocus/internal/storage"
)

// Version constants for the snapshot format.
const (
	ManifestVersion = "2.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
)

const nameLayout = "2006-01-02_150405"

// Manager handles backup and restore operations.
type Manager struct {
	store      *storage.Storage
	backupDir  string // e.g. ~/.dailyfocus/backups
	appVersion string
	log        *zap.Logger
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Backend    string         `json:"backend,omitempty"`
	Keys       []string       `json:"keys"`
	Stats      map[string]int `json:"stats"`
}

// Info contains summary information about a backup.
type Info struct {
	Name      string         // Directory name (2025-12-15_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // Item count per collection
}

// NewManager creates a backup manager storing snapshots under
// <dataDir>/backups.
func NewManager(store *storage.Storage, dataDir, appVersion string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:      store,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		log:        log,
		now:        time.Now,
	}
}

// Dir returns the directory holding the snapshots.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots every collection and returns the backup name.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name, backupPath, err := m.reserve(now)
	if err != nil {
		return "", err
	}

	stats := make(map[string]int, len(storage.Keys))
	for _, key := range storage.Keys {
		data, err := m.store.ReadRaw(key)
		if err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := fsutil.WriteFileAtomic(filepath.Join(backupPath, key+".json"), data, 0600); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", key, err)
		}
		if n, err := countItems(data); err == nil {
			stats[key] = n
		}
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Backend:    backendName(m.store.Backend()),
		Keys:       append([]string(nil), storage.Keys...),
		Stats:      stats,
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	m.log.Info("backup created", zap.String("name", name), zap.Any("stats", stats))
	return name, nil
}

// reserve creates a fresh snapshot directory named after now, stepping
// forward a millisecond at a time if the name is taken.
func (m *Manager) reserve(now time.Time) (string, string, error) {
	base := now.Truncate(time.Millisecond)
	for i := 0; i < 1000; i++ {
		t := base.Add(time.Duration(i) * time.Millisecond)
		name := fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/1e6)
		path := filepath.Join(m.backupDir, name)
		err := os.Mkdir(path, 0700)
		if err == nil {
			return name, path, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("failed to create backup: %w", err)
		}
	}
	return "", "", fmt.Errorf("failed to create backup: no free name near %s", now.Format(nameLayout))
}

// List returns all available backups, sorted by creation time (newest first).
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // Skip invalid backups
		}
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Get returns information about a specific backup.
func (m *Manager) Get(name string) (Info, error) {
	if err := validateBackupName(name); err != nil {
		return Info{}, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (Info, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return Info{}, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = make(map[string]int)
	}

	return Info{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Restore replaces the stored collections with those of a backup. Every
// file is validated first, and a safety backup of the current data is taken
// before anything is written. The safety backup name is returned.
func (m *Manager) Restore(name string) (string, error) {
	if err := validateBackupName(name); err != nil {
		return "", err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup not found: %s", name)
	}

	keys := storage.Keys
	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err == nil && len(manifest.Keys) > 0 {
		keys = manifest.Keys
	}

	payload := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if !isKnownKey(key) {
			return "", fmt.Errorf("backup %s names unknown collection %q", name, key)
		}
		data, err := os.ReadFile(filepath.Join(backupPath, key+".json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if _, err := countItems(data); err != nil {
			return "", fmt.Errorf("backup file %s is invalid: %w", key, err)
		}
		payload[key] = data
	}

	safetyName, err := m.Create()
	if err != nil {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, key := range keys {
		data, ok := payload[key]
		if !ok {
			continue
		}
		if err := m.store.WriteRaw(key, data); err != nil {
			return safetyName, fmt.Errorf("failed to restore %s (safety backup: %s): %w", key, safetyName, err)
		}
	}

	m.log.Info("backup restored", zap.String("name", name), zap.String("safety", safetyName))
	return safetyName, nil
}

// RestoreLatest restores from the most recent backup and returns its name.
func (m *Manager) RestoreLatest() (restored, safety string, err error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}
	if len(backups) == 0 {
		return "", "", fmt.Errorf("no backups available")
	}

	safety, err = m.Restore(backups[0].Name)
	return backups[0].Name, safety, err
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Helper functions

func isKnownKey(key string) bool {
	for _, k := range storage.Keys {
		if k == key {
			return true
		}
	}
	return false
}

func backendName(b storage.Backend) string {
	switch b.(type) {
	case *storage.FileBackend:
		return storage.BackendFile
	case *storage.SQLiteBackend:
		return storage.BackendSQLite
	default:
		return ""
	}
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// writeJSON writes a value as JSON to a file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// readJSON reads JSON from a file into a value.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// countItems returns the length of a collection document, which must be a
// JSON array.
func countItems(data []byte) (int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// parseBackupName parses a backup directory name into a timestamp.
// Supports both 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseBackupName(name string) (time.Time, error) {
	if len(name) == 21 {
		baseTime, err := time.Parse(nameLayout, name[:17])
		if err != nil {
			return time.Time{}, err
		}
		if name[17] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[18:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return baseTime.Add(time.Duration(ms) * time.Millisecond), nil
	}

	return time.Parse(nameLayout, name)
}
