// Package store provides bbolt-based persistence for gitsim.
// It keeps the REPL command history in a single embedded bbolt database file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the store.
var (
	bucketHistory = []byte("history")
)

// DefaultHistoryLimit is how many commands are kept unless SetLimit says otherwise.
const DefaultHistoryLimit = 500

// Store represents the bbolt database store.
type Store struct {
	db    *bolt.DB
	limit int
	now   func() time.Time
}

// New opens or creates a bbolt database at the given path.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Store{db: db, limit: DefaultHistoryLimit, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize creates all required buckets.
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// SetLimit sets how many commands AppendCommand keeps. Zero or less keeps
// everything.
func (s *Store) SetLimit(limit int) {
	s.limit = limit
}
