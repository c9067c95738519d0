package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kilupskalvis/gitsim/internal/models"
	bolt "go.etcd.io/bbolt"
)

// historyKey builds the bbolt key for a history entry. Zero padding keeps
// cursor order equal to submission order.
func historyKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d", seq))
}

// AppendCommand records a submitted command line and drops the oldest entries
// beyond the limit. Blank lines are not recorded.
func (s *Store) AppendCommand(command string) (*models.HistoryEntry, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, nil
	}

	var entry *models.HistoryEntry
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return fmt.Errorf("history bucket not found")
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next history sequence: %w", err)
		}
		entry = &models.HistoryEntry{Seq: seq, Command: command, Timestamp: s.now().UTC()}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		if err := b.Put(historyKey(seq), data); err != nil {
			return err
		}

		return trimHistory(b, seq, s.limit)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// trimHistory deletes entries older than the newest limit ones.
func trimHistory(b *bolt.Bucket, newest uint64, limit int) error {
	if limit <= 0 || newest <= uint64(limit) {
		return nil
	}
	cutoff := historyKey(newest - uint64(limit) + 1)

	c := b.Cursor()
	for k, _ := c.First(); k != nil && string(k) < string(cutoff); k, _ = c.First() {
		if err := c.Delete(); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return nil
}

// LastCommand returns the most recently submitted command, or "" if none.
func (s *Store) LastCommand() (string, error) {
	var command string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return nil
		}
		_, v := b.Cursor().Last()
		if v == nil {
			return nil
		}
		var entry models.HistoryEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return fmt.Errorf("unmarshal history entry: %w", err)
		}
		command = entry.Command
		return nil
	})
	return command, err
}

// RecentCommands returns up to n of the newest entries, oldest first.
// n <= 0 returns the whole history.
func (s *Store) RecentCommands(n int) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil && (n <= 0 || len(entries) < n); k, v = c.Prev() {
			var entry models.HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshal history entry: %w", err)
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
