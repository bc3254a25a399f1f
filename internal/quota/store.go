package quota

import (
	"context"
	"sync"
	"time"
)

// Increment adds DeltaMB to the counter at Key as of instant At. A counter
// whose expiry is not after At counts as absent and restarts from zero. The
// counter's expiry becomes ExpiresAt.
type Increment struct {
	Key       string
	DeltaMB   float64
	At        time.Time
	ExpiresAt time.Time
}

// CounterStore holds per-identity counters. AddAndGet must be atomic per key:
// concurrent increments on one key all land in the final total.
type CounterStore interface {
	AddAndGet(ctx context.Context, inc Increment) (float64, error)
	// Get returns the live value of key at instant at, or 0.
	Get(ctx context.Context, key string, at time.Time) (float64, error)
}

// Sweepable is implemented by stores that can drop expired counters in bulk.
type Sweepable interface {
	Sweep(ctx context.Context, at time.Time) (int64, error)
}

// Counter is the stored form of one identity's running total.
type Counter struct {
	MB        float64   `json:"mb"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Live reports whether c is still valid at instant at.
func (c Counter) Live(at time.Time) bool {
	return c.ExpiresAt.After(at)
}

// MemoryStore is an in-process CounterStore. It is only shared by the
// goroutines of one process.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]Counter
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]Counter)}
}

func (m *MemoryStore) AddAndGet(_ context.Context, inc Increment) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.counters[inc.Key]
	if !c.Live(inc.At) {
		c = Counter{}
	}
	c.MB += inc.DeltaMB
	c.ExpiresAt = inc.ExpiresAt
	m.counters[inc.Key] = c
	return c.MB, nil
}

func (m *MemoryStore) Get(_ context.Context, key string, at time.Time) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[key]
	if !ok || !c.Live(at) {
		return 0, nil
	}
	return c.MB, nil
}

func (m *MemoryStore) Sweep(_ context.Context, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for key, c := range m.counters {
		if !c.Live(at) {
			delete(m.counters, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of counters held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}
