package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// entry is one key of the store. Previous holds the value replaced by the
// last write so a corrupt value can be rolled back.
type entry struct {
	Key       string `gorm:"primaryKey;column:name"`
	Value     string
	Previous  string
	UpdatedAt time.Time
}

func (entry) TableName() string { return "entries" }

// SQLiteBackend keeps every key as a row of a single table.
type SQLiteBackend struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and migrates the schema.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entry{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteBackend{db: db, now: time.Now}, nil
}

func (b *SQLiteBackend) Get(key string) ([]byte, error) {
	var e entry
	err := b.db.Where("name = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(e.Value), nil
}

func (b *SQLiteBackend) Put(key string, data []byte) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		var prev entry
		err := tx.Where("name = ?", key).First(&prev).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		e := entry{
			Key:       key,
			Value:     string(data),
			Previous:  prev.Value,
			UpdatedAt: b.now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "previous", "updated_at"}),
		}).Create(&e).Error
	})
}

// Backup returns the value replaced by the last write.
func (b *SQLiteBackend) Backup(key string) ([]byte, error) {
	var e entry
	if err := b.db.Where("name = ?", key).First(&e).Error; err != nil {
		return nil, err
	}
	if e.Previous == "" {
		return nil, ErrNotFound
	}
	return []byte(e.Previous), nil
}

// Quarantine copies the current value to a "<key>.corrupt.<timestamp>" row
// and removes the original.
func (b *SQLiteBackend) Quarantine(key string) (string, error) {
	moved := fmt.Sprintf("%s.corrupt.%s", key, b.now().Format(quarantineLayout))
	err := b.db.Transaction(func(tx *gorm.DB) error {
		var e entry
		if err := tx.Where("name = ?", key).First(&e).Error; err != nil {
			return err
		}
		if err := tx.Create(&entry{Key: moved, Value: e.Value, UpdatedAt: b.now()}).Error; err != nil {
			return err
		}
		return tx.Where("name = ?", key).Delete(&entry{}).Error
	})
	if err != nil {
		return "", err
	}
	return moved, nil
}

func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
