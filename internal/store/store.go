// Package store persists and queries dashboard rows through gorm.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNoCredentials is returned when a user has not stored exchange credentials.
	ErrNoCredentials = errors.New("no exchange credentials for user")
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store wraps the database handle used by the services.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an opened and migrated database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle, mainly for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}
