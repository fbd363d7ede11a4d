// Package session persists the current-user identity record in a local
// Pebble KV. It is the server-side analogue of the browser's local storage
// slot: one namespaced key holding a serialized sanitized user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/logger"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
)

// CurrentUserKey is the fixed namespaced key under which the persisted
// identity record is stored. The value never includes credential material.
const CurrentUserKey = "threadspire_user"

// Store wraps a Pebble DB opened at a local path.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at the given path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("session_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("session_store_opened", "path", path)
	return &Store{db: db}, nil
}

// Close closes the underlying DB.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ready reports whether the store is opened and usable.
func (s *Store) Ready() bool { return s != nil && s.db != nil }

// SaveCurrentUser serializes the sanitized user under CurrentUserKey.
func (s *Store) SaveCurrentUser(u *models.User) error {
	if s.db == nil {
		return fmt.Errorf("session store not open")
	}
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.db.Set([]byte(CurrentUserKey), b, pebble.Sync)
}

// LoadCurrentUser returns the persisted identity record, or (nil, nil) when
// none is stored. An unparseable value is discarded and treated as absent.
func (s *Store) LoadCurrentUser() (*models.User, error) {
	if s.db == nil {
		return nil, fmt.Errorf("session store not open")
	}
	v, closer, err := s.db.Get([]byte(CurrentUserKey))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	var u models.User
	if err := json.Unmarshal(v, &u); err != nil || u.ID == "" {
		logger.Warn("session_record_unparseable", "key", CurrentUserKey)
		_ = s.ClearCurrentUser()
		return nil, nil
	}
	return &u, nil
}

// ClearCurrentUser removes the persisted identity record.
func (s *Store) ClearCurrentUser() error {
	if s.db == nil {
		return fmt.Errorf("session store not open")
	}
	return s.db.Delete([]byte(CurrentUserKey), pebble.Sync)
}
