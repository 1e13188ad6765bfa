package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/echoscribe/backend/internal/kv"
)

const (
	// DefaultKey is the storage slot holding the JSON-encoded record list.
	DefaultKey = "history:records"
	// DefaultLimit bounds the list; older records past it are dropped on save.
	DefaultLimit = 100
)

// ErrRecordNotFound is returned by Get for an unknown record id.
var ErrRecordNotFound = errors.New("history: record not found")

// Store persists a bounded, ordered transcription history as one JSON array
// in a single key-value slot, most recent record first. Every mutation is a
// full read-modify-write cycle against that slot; concurrent writers race
// and the last write wins.
type Store struct {
	kv    kv.Store
	key   string
	limit int
}

// NewStore builds a Store over the given backend. A zero key or limit falls
// back to the defaults.
func NewStore(store kv.Store, key string, limit int) *Store {
	if key == "" {
		key = DefaultKey
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{kv: store, key: key, limit: limit}
}

// Save builds a record from a transcription result, computes its preview,
// prepends it to the list and drops anything past the limit.
func (s *Store) Save(ctx context.Context, in Input) (Record, error) {
	rec := newRecord(in)

	records, err := s.List(ctx)
	if err != nil {
		return Record{}, err
	}

	records = append([]Record{rec}, records...)
	if len(records) > s.limit {
		records = records[:s.limit]
	}

	if err := s.write(ctx, records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns all records, most recent first. A missing key or a payload
// that fails to decode yields an empty list, not an error.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		slog.Warn("discarding malformed history payload", "key", s.key, "error", err)
		return []Record{}, nil
	}
	if records == nil {
		return []Record{}, nil
	}
	return records, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrRecordNotFound
}

// Delete removes the record with the given id, leaving the rest in order.
// An unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.write(ctx, kept)
}

// Clear removes the storage key entirely.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data), 0); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
