// Package audit retains raw record envelopes for debugging. Entries are the
// untouched key/value bytes of a message, typically captured when a decode
// fails, keyed by a time-sortable ksuid.
package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// Entry is one retained envelope.
type Entry struct {
	ID     string    `json:"id"`
	Key    []byte    `json:"key"`
	Value  []byte    `json:"value"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

// Store is a pebble-backed envelope store.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the audit store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening audit store: %w", err)
	}
	return &Store{db: db}, nil
}

// Record retains one envelope and returns its entry ID. reason is free text,
// usually the decode error that triggered retention.
func (s *Store) Record(key, value []byte, reason string) (string, error) {
	id := ksuid.New()
	entry := Entry{
		ID:     id.String(),
		Key:    key,
		Value:  value,
		Reason: reason,
		At:     time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("encoding audit entry: %w", err)
	}
	if err := s.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return "", fmt.Errorf("writing audit entry: %w", err)
	}
	return id.String(), nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (*Entry, error) {
	kid, err := ksuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid audit entry id: %w", err)
	}

	data, closer, err := s.db.Get(kid.Bytes())
	if err != nil {
		return nil, fmt.Errorf("reading audit entry: %w", err)
	}
	defer closer.Close()

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding audit entry: %w", err)
	}
	return &entry, nil
}

// List returns up to limit entry IDs in key order. Keys are time-prefixed,
// so the order tracks arrival time at one-second granularity.
func (s *Store) List(limit int) ([]string, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("iterating audit store: %w", err)
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid() && len(ids) < limit; iter.Next() {
		kid, err := ksuid.FromBytes(append([]byte(nil), iter.Key()...))
		if err != nil {
			continue
		}
		ids = append(ids, kid.String())
	}
	return ids, iter.Error()
}

// Delete removes the entry with the given ID.
func (s *Store) Delete(id string) error {
	kid, err := ksuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid audit entry id: %w", err)
	}
	return s.db.Delete(kid.Bytes(), pebble.NoSync)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.db.Close()
}
