// Package activation persists the set of always-active channels: channels
// flagged to receive responses to every message, bypassing trigger-word
// matching. The set is read at startup and mutated by the /toggleactive
// chat command.
package activation

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a sqlite-backed persisted set of channel identifiers with an
// in-memory mirror for cheap membership checks on the message hot path.
type Store struct {
	db *sql.DB

	mu     sync.RWMutex
	active map[string]struct{}
}

// Open opens (creating if needed) the activation database at path and
// loads the current set.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening activation db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS active_channels (
			channel_id TEXT PRIMARY KEY,
			added_at   TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating active_channels table: %w", err)
	}

	s := &Store{db: db, active: make(map[string]struct{})}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// load populates the in-memory set from the table.
func (s *Store) load() error {
	rows, err := s.db.Query("SELECT channel_id FROM active_channels")
	if err != nil {
		return fmt.Errorf("loading active channels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning channel id: %w", err)
		}
		s.active[id] = struct{}{}
	}
	return rows.Err()
}

// IsActive reports whether the channel is in the active set.
func (s *Store) IsActive(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[channelID]
	return ok
}

// Add persists the channel into the active set.
func (s *Store) Add(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO active_channels (channel_id, added_at) VALUES (?, ?)",
		channelID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("adding channel %q: %w", channelID, err)
	}

	s.active[channelID] = struct{}{}
	return nil
}

// Remove deletes the channel from the active set.
func (s *Store) Remove(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM active_channels WHERE channel_id = ?", channelID); err != nil {
		return fmt.Errorf("removing channel %q: %w", channelID, err)
	}

	delete(s.active, channelID)
	return nil
}

// List returns the active channel IDs in unspecified order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.active))
	for id := range s.active {
		out = append(out, id)
	}
	return out
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
