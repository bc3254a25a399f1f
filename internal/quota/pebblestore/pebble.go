// Package pebblestore keeps quota counters in an embedded Pebble database.
// It is a plain KV; wrap it with quota.NewLockedStore to get atomic
// increments and safe sweeping within one process.
package pebblestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"

	"kimbo/internal/quota"
)

const counterPrefix = "quota:"

// Store wraps a Pebble database holding JSON-encoded counters.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the counter database under dataDir.
func Open(dataDir string) (*Store, error) {
	db, err := pebble.Open(filepath.Join(dataDir, "counters"), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(_ context.Context, key string) (quota.Counter, bool, error) {
	value, closer, err := s.db.Get(counterKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return quota.Counter{}, false, nil
		}
		return quota.Counter{}, false, err
	}
	defer closer.Close()

	var c quota.Counter
	if err := json.Unmarshal(value, &c); err != nil {
		return quota.Counter{}, false, fmt.Errorf("failed to unmarshal counter %s: %w", key, err)
	}
	return c, true, nil
}

func (s *Store) Store(_ context.Context, key string, c quota.Counter) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal counter: %w", err)
	}
	return s.db.Set(counterKey(key), data, pebble.Sync)
}

// ExpiredKeys lists the counters that have expired at instant at. Entries
// that do not decode are skipped.
func (s *Store) ExpiredKeys(ctx context.Context, at time.Time) ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(counterPrefix),
		UpperBound: []byte(counterPrefix + "\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var c quota.Counter
		if err := json.Unmarshal(iter.Value(), &c); err != nil {
			continue
		}
		if !c.Live(at) {
			keys = append(keys, strings.TrimPrefix(string(iter.Key()), counterPrefix))
		}
	}
	return keys, iter.Error()
}

func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Delete(counterKey(key), pebble.Sync)
}

func counterKey(key string) []byte {
	return []byte(counterPrefix + key)
}
