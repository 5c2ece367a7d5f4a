package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Storage keys for the two persisted collections.
const (
	KeyMessages = "pixelforge_messages"
	KeyAssets   = "pixelforge_assets"
)

// Record holds one persisted collection as a JSON blob. Writes replace the
// whole value, last writer wins.
type Record struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

// Store is the local persistence adapter. Load fails soft, Save is
// unconditional write-through.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path and migrates the record table.
// Use ":memory:" for a throwaway store in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Load decodes the value stored under key into dest. A missing row or a
// value that no longer parses leaves dest untouched and returns false, so
// the caller falls back to its default.
func (s *Store) Load(key string, dest any) bool {
	var rec Record
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[storage] load %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(rec.Value), dest); err != nil {
		log.Printf("[storage] discarding malformed value for %s: %v", key, err)
		return false
	}
	return true
}

// Save replaces the value under key with the JSON form of value. Failures
// are logged only; the in-memory state stays authoritative.
func (s *Store) Save(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[storage] marshal %s: %v", key, err)
		return
	}
	rec := Record{Key: key, Value: string(data), UpdatedAt: time.Now()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&rec).Error
	if err != nil {
		log.Printf("[storage] save %s: %v", key, err)
	}
}

// Delete removes the row under key, if any.
func (s *Store) Delete(key string) {
	if err := s.db.Delete(&Record{}, "key = ?", key).Error; err != nil {
		log.Printf("[storage] delete %s: %v", key, err)
	}
}
