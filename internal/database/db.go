package database

import (
	"fmt"
	"os"
	"path/filepath"

	"bizdesk/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSessionDB opens the local SQLite file backing durable sessions and
// migrates its schema. Business data never lands here; it lives in the
// external data store.
func NewSessionDB(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create session db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Session{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session schema: %w", err)
	}
	return db, nil
}
