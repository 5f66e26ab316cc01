package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Fixed keys of the four persisted collections. Each holds a JSON array.
const (
	KeyTasks      = "tasks"
	KeyCategories = "categories"
	KeyHabits     = "habits"
	KeySessions   = "sessions"
)

// Keys lists every persisted entry.
var Keys = []string{KeyTasks, KeyCategories, KeyHabits, KeySessions}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend persists raw JSON documents under string keys.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Close() error
}

// Recoverer is implemented by backends that keep the previous value of each
// key and can set a corrupt value aside.
type Recoverer interface {
	Backup(key string) ([]byte, error)
	// Quarantine moves the current value out of the way and returns where it went.
	Quarantine(key string) (string, error)
}

// Options selects and configures a backend.
type Options struct {
	Backend    string // "file" (default) or "sqlite"
	DataDir    string
	SQLitePath string // defaults to <DataDir>/dailyfocus.db
}

// Storage reads and writes the typed collections over a Backend.
type Storage struct {
	backend Backend
	log     *zap.Logger

	mu       sync.Mutex
	warnings []string
	onSave   func(key string)
}

// Open builds the backend named in opts and wraps it.
func Open(opts Options, log *zap.Logger) (*Storage, error) {
	switch opts.Backend {
	case "", BackendFile:
		b, err := NewFileBackend(opts.DataDir)
		if err != nil {
			return nil, err
		}
		return New(b, log), nil
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = filepath.Join(opts.DataDir, "dailyfocus.db")
		}
		b, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return New(b, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file or sqlite)", opts.Backend)
	}
}

// New wraps an existing backend. A nil logger discards output.
func New(backend Backend, log *zap.Logger) *Storage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Storage{backend: backend, log: log}
}

// Backend returns the underlying backend.
func (s *Storage) Backend() Backend {
	return s.backend
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}

// SetOnSave registers a callback run after each successful write.
func (s *Storage) SetOnSave(fn func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = fn
}

// Warnings returns and clears the recovery notes collected while loading.
func (s *Storage) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.warnings
	s.warnings = nil
	return out
}

func (s *Storage) warn(msg string) {
	s.mu.Lock()
	s.warnings = append(s.warnings, msg)
	s.mu.Unlock()
}

// ============================================================================
// Typed collections
// ============================================================================

// LoadTasks reads the task collection.
func (s *Storage) LoadTasks() ([]Task, error) { return load[Task](s, KeyTasks) }

// SaveTasks writes the task collection.
func (s *Storage) SaveTasks(tasks []Task) error { return s.save(KeyTasks, tasks) }

// LoadCategories reads the category collection.
func (s *Storage) LoadCategories() ([]Category, error) { return load[Category](s, KeyCategories) }

// SaveCategories writes the category collection.
func (s *Storage) SaveCategories(categories []Category) error {
	return s.save(KeyCategories, categories)
}

// LoadHabits reads the habit collection.
func (s *Storage) LoadHabits() ([]Habit, error) { return load[Habit](s, KeyHabits) }

// SaveHabits writes the habit collection.
func (s *Storage) SaveHabits(habits []Habit) error { return s.save(KeyHabits, habits) }

// LoadSessions reads the pomodoro session collection.
func (s *Storage) LoadSessions() ([]PomodoroSession, error) {
	return load[PomodoroSession](s, KeySessions)
}

// SaveSessions writes the pomodoro session collection.
func (s *Storage) SaveSessions(sessions []PomodoroSession) error {
	return s.save(KeySessions, sessions)
}

// ReadRaw returns the stored JSON for key, or "[]" when it was never written.
func (s *Storage) ReadRaw(key string) ([]byte, error) {
	data, err := s.backend.Get(key)
	if errors.Is(err, ErrNotFound) {
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// WriteRaw stores already-encoded JSON for key after checking it is an array.
func (s *Storage) WriteRaw(key string, data []byte) error {
	var probe []json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%s is not a JSON array: %w", key, err)
	}
	return s.put(key, data)
}

func (s *Storage) save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", key, err)
	}
	return s.put(key, data)
}

func (s *Storage) put(key string, data []byte) error {
	if err := s.backend.Put(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	s.mu.Lock()
	fn := s.onSave
	s.mu.Unlock()
	if fn != nil {
		fn(key)
	}
	return nil
}

// load decodes key into a slice. Missing entries are empty; corrupt entries
// are recovered from the backend's previous copy when possible, otherwise set
// aside and treated as empty.
func load[T any](s *Storage, key string) ([]T, error) {
	data, err := s.backend.Get(key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	out, cause := decode[T](key, data)
	if cause == nil {
		return out, nil
	}
	return recoverCorrupt[T](s, key, cause), nil
}

func decode[T any](key string, data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s is empty", key)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func recoverCorrupt[T any](s *Storage, key string, cause error) []T {
	rec, ok := s.backend.(Recoverer)
	if !ok {
		s.log.Warn("corrupt entry reset", zap.String("key", key), zap.Error(cause))
		s.warn(fmt.Sprintf("%s (reset to empty)", cause))
		return []T{}
	}

	if bak, err := rec.Backup(key); err == nil {
		if out, err := decode[T](key, bak); err == nil {
			moved, _ := rec.Quarantine(key)
			if err := s.backend.Put(key, bak); err != nil {
				s.log.Error("restore backup", zap.String("key", key), zap.Error(err))
			}
			s.log.Warn("corrupt entry recovered from backup",
				zap.String("key", key), zap.String("moved_to", moved), zap.Error(cause))
			s.warn(fmt.Sprintf("%s (recovered from backup)", cause))
			return out
		}
	}

	moved, err := rec.Quarantine(key)
	if err != nil {
		s.log.Error("quarantine corrupt entry", zap.String("key", key), zap.Error(err))
	}
	s.log.Warn("corrupt entry reset", zap.String("key", key), zap.String("moved_to", moved), zap.Error(cause))
	s.warn(fmt.Sprintf("%s (reset to empty; original moved to %s)", cause, moved))
	return []T{}
}
