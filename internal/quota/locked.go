package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultLockTimeout bounds how long an increment waits for its key.
const DefaultLockTimeout = 2 * time.Second

var ErrLockTimeout = errors.New("timed out waiting for counter lock")

// KV is a plain get/put store with no atomic arithmetic.
type KV interface {
	Load(ctx context.Context, key string) (Counter, bool, error)
	Store(ctx context.Context, key string, c Counter) error
}

// ExpiredLister is a KV that can enumerate and delete expired counters.
// LockedStore sweeps such a KV key by key under the same locks increments use.
type ExpiredLister interface {
	ExpiredKeys(ctx context.Context, at time.Time) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// LockedStore makes a KV usable as a CounterStore by serializing
// read-modify-write cycles per key. Locks are process-local.
type LockedStore struct {
	kv      KV
	timeout time.Duration

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// NewLockedStore wraps kv. A timeout <= 0 selects DefaultLockTimeout.
func NewLockedStore(kv KV, timeout time.Duration) *LockedStore {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &LockedStore{
		kv:      kv,
		timeout: timeout,
		locks:   make(map[string]*keyLock),
	}
}

func (s *LockedStore) AddAndGet(ctx context.Context, inc Increment) (float64, error) {
	release, err := s.acquire(ctx, inc.Key)
	if err != nil {
		return 0, err
	}
	defer release()

	c, ok, err := s.kv.Load(ctx, inc.Key)
	if err != nil {
		return 0, fmt.Errorf("failed to load counter %s: %w", inc.Key, err)
	}
	if !ok || !c.Live(inc.At) {
		c = Counter{}
	}
	c.MB += inc.DeltaMB
	c.ExpiresAt = inc.ExpiresAt

	if err := s.kv.Store(ctx, inc.Key, c); err != nil {
		return 0, fmt.Errorf("failed to store counter %s: %w", inc.Key, err)
	}
	return c.MB, nil
}

func (s *LockedStore) Get(ctx context.Context, key string, at time.Time) (float64, error) {
	c, ok, err := s.kv.Load(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to load counter %s: %w", key, err)
	}
	if !ok || !c.Live(at) {
		return 0, nil
	}
	return c.MB, nil
}

// Sweep deletes counters expired at instant at when the wrapped KV is an
// ExpiredLister. Each candidate is re-read under its key lock, so a counter
// restarted by a concurrent increment survives. Keys whose lock is busy are
// left for the next sweep.
func (s *LockedStore) Sweep(ctx context.Context, at time.Time) (int64, error) {
	lister, ok := s.kv.(ExpiredLister)
	if !ok {
		return 0, nil
	}

	keys, err := lister.ExpiredKeys(ctx, at)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired counters: %w", err)
	}

	var removed int64
	for _, key := range keys {
		deleted, err := s.sweepKey(ctx, lister, key, at)
		if err != nil {
			if errors.Is(err, ErrLockTimeout) {
				continue
			}
			return removed, err
		}
		if deleted {
			removed++
		}
	}
	return removed, nil
}

func (s *LockedStore) sweepKey(ctx context.Context, lister ExpiredLister, key string, at time.Time) (bool, error) {
	release, err := s.acquire(ctx, key)
	if err != nil {
		return false, err
	}
	defer release()

	c, ok, err := s.kv.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to load counter %s: %w", key, err)
	}
	if !ok || c.Live(at) {
		return false, nil
	}
	if err := lister.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("failed to delete counter %s: %w", key, err)
	}
	return true, nil
}

func (s *LockedStore) acquire(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case l.sem <- struct{}{}:
		return func() {
			<-l.sem
			s.unref(key, l)
		}, nil
	case <-timer.C:
		s.unref(key, l)
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	case <-ctx.Done():
		s.unref(key, l)
		return nil, ctx.Err()
	}
}

func (s *LockedStore) unref(key string, l *keyLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
}
