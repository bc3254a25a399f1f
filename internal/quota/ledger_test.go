package quota

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"kimbo/internal/testutil"
)

const mb = 1048576

// fakeClock is a settable clock for window tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// recordingStore remembers the keys it was asked to charge.
type recordingStore struct {
	*MemoryStore
	mu   sync.Mutex
	keys []string
}

func (r *recordingStore) AddAndGet(ctx context.Context, inc Increment) (float64, error) {
	r.mu.Lock()
	r.keys = append(r.keys, inc.Key)
	r.mu.Unlock()
	return r.MemoryStore.AddAndGet(ctx, inc)
}

type brokenStore struct{}

var errStoreDown = errors.New("counter store unavailable")

func (brokenStore) AddAndGet(context.Context, Increment) (float64, error) { return 0, errStoreDown }
func (brokenStore) Get(context.Context, string, time.Time) (float64, error) {
	return 0, errStoreDown
}

func newTestLedger(t *testing.T, store CounterStore, limit float64) (*Ledger, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	l := NewLedger(store,
		WithDailyLimit(limit),
		WithLocation(time.UTC),
		WithClock(clock.Now),
	)
	return l, clock
}

func TestCheckAndRecord_OverLimitAttemptStillCounts(t *testing.T) {
	store := NewMemoryStore()
	l, clock := newTestLedger(t, store, 10)
	ctx := context.Background()
	id := Identity{UserID: "u-1", Address: "10.0.0.1"}

	exceeded, err := l.CheckAndRecord(ctx, 6*mb, id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exceeded {
		t.Fatal("6 MB of 10 should be admitted")
	}
	if got, _ := store.Get(ctx, l.userKey("u-1"), clock.Now()); got != 6 {
		t.Errorf("expected user counter 6, got %v", got)
	}

	exceeded, err = l.CheckAndRecord(ctx, 5*mb, id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exceeded {
		t.Fatal("11 MB of 10 should be rejected")
	}
	if got, _ := store.Get(ctx, l.userKey("u-1"), clock.Now()); got != 11 {
		t.Errorf("expected user counter 11, got %v", got)
	}
}

func TestCheckAndRecord_ExactLimitIsAdmitted(t *testing.T) {
	l, _ := newTestLedger(t, NewMemoryStore(), 10)
	exceeded, err := l.CheckAndRecord(context.Background(), 10*mb, Identity{Address: "10.0.0.1"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exceeded {
		t.Error("a total equal to the limit should not exceed it")
	}
}

func TestCheckAndRecord_PerCallLimit(t *testing.T) {
	l, _ := newTestLedger(t, NewMemoryStore(), 200)
	exceeded, err := l.CheckAndRecord(context.Background(), 3*mb, Identity{Address: "10.0.0.1"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exceeded {
		t.Error("expected per-call limit of 2 MB to override the default")
	}
}

func TestCheckAndRecord_DefaultLimit(t *testing.T) {
	l := NewLedger(NewMemoryStore())
	if l.LimitMB() != DefaultDailyLimitMB {
		t.Fatalf("expected default limit %d, got %v", DefaultDailyLimitMB, l.LimitMB())
	}

	exceeded, err := l.CheckAndRecord(context.Background(), 200*mb, Identity{Address: "10.0.0.1"}, 0)
	if err != nil || exceeded {
		t.Fatalf("200 MB should be admitted: exceeded=%v err=%v", exceeded, err)
	}
	exceeded, err = l.CheckAndRecord(context.Background(), 1, Identity{Address: "10.0.0.1"}, 0)
	if err != nil || !exceeded {
		t.Fatalf("one byte past 200 MB should exceed: exceeded=%v err=%v", exceeded, err)
	}
}

func TestCheckAndRecord_WindowRollover(t *testing.T) {
	store := NewMemoryStore()
	l, clock := newTestLedger(t, store, 10)
	ctx := context.Background()
	id := Identity{UserID: "u-1", Address: "10.0.0.1"}

	clock.Set(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))
	if _, err := l.CheckAndRecord(ctx, 9*mb, id, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Set(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	usage, err := l.Usage(ctx, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.UserMB != 0 || usage.AddressMB != 0 {
		t.Errorf("expected counters to reset at midnight, got %+v", usage)
	}

	exceeded, err := l.CheckAndRecord(ctx, 9*mb, id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exceeded {
		t.Error("yesterday's uploads must not count today")
	}
}

func TestCheckAndRecord_ExpiryIsNextLocalMidnight(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	var got Increment
	store := &captureStore{onAdd: func(inc Increment) { got = inc }}

	l := NewLedger(store,
		WithLocation(loc),
		WithClock(func() time.Time { return time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC) }),
	)
	if _, err := l.CheckAndRecord(context.Background(), mb, Identity{Address: "10.0.0.1"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 23:30 UTC is 00:30 on the 15th in WAT, so the window ends at midnight on the 16th.
	want := time.Date(2026, 3, 16, 0, 0, 0, 0, loc)
	if !got.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, got.ExpiresAt)
	}
	if got.DeltaMB != 1 {
		t.Errorf("expected 1 MB increment, got %v", got.DeltaMB)
	}
}

type captureStore struct {
	onAdd func(Increment)
}

func (c *captureStore) AddAndGet(_ context.Context, inc Increment) (float64, error) {
	c.onAdd(inc)
	return inc.DeltaMB, nil
}

func (c *captureStore) Get(context.Context, string, time.Time) (float64, error) { return 0, nil }

func TestCheckAndRecord_UserExceededSkipsAddress(t *testing.T) {
	store := &recordingStore{MemoryStore: NewMemoryStore()}
	l, clock := newTestLedger(t, store, 10)
	ctx := context.Background()
	id := Identity{UserID: "u-1", Address: "10.0.0.1"}

	exceeded, err := l.CheckAndRecord(ctx, 11*mb, id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exceeded {
		t.Fatal("expected user quota to be exceeded")
	}
	if len(store.keys) != 1 || !strings.HasPrefix(store.keys[0], "user:") {
		t.Errorf("expected only the user counter to be charged, got %v", store.keys)
	}
	if got, _ := store.Get(ctx, l.addressKey("10.0.0.1"), clock.Now()); got != 0 {
		t.Errorf("expected address counter untouched, got %v", got)
	}
}

func TestCheckAndRecord_DualKeyIndependence(t *testing.T) {
	ctx := context.Background()

	t.Run("user over limit while shared address stays under", func(t *testing.T) {
		l, _ := newTestLedger(t, NewMemoryStore(), 10)
		shared := "10.0.0.7"

		exceeded, _ := l.CheckAndRecord(ctx, 4*mb, Identity{UserID: "heavy", Address: shared}, 0)
		if exceeded {
			t.Fatal("first upload should pass")
		}
		exceeded, _ = l.CheckAndRecord(ctx, 7*mb, Identity{UserID: "heavy", Address: shared}, 0)
		if !exceeded {
			t.Fatal("heavy user should be over quota")
		}

		exceeded, err := l.CheckAndRecord(ctx, 2*mb, Identity{UserID: "light", Address: shared}, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if exceeded {
			t.Error("another user on the same address should still be admitted")
		}
	})

	t.Run("address over limit while each user stays under", func(t *testing.T) {
		l, _ := newTestLedger(t, NewMemoryStore(), 10)
		shared := "10.0.0.8"

		r := rand.New(rand.NewPCG(7, 11))
		users := testutil.RandomSpecialities(r)
		for len(users) < 3 {
			users = testutil.RandomSpecialities(r)
		}

		var results []bool
		for _, user := range users[:3] {
			exceeded, err := l.CheckAndRecord(ctx, 4*mb, Identity{UserID: user, Address: shared}, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			results = append(results, exceeded)
		}

		if results[0] || results[1] {
			t.Errorf("first two uploads should pass, got %v", results)
		}
		if !results[2] {
			t.Error("third upload should push the address past the limit")
		}

		usage, err := l.Usage(ctx, Identity{UserID: users[0], Address: shared})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if usage.UserMB != 4 || usage.AddressMB != 12 {
			t.Errorf("unexpected usage %+v", usage)
		}
	})
}

func TestCheckAndRecord_AnonymousChargesAddressOnly(t *testing.T) {
	store := &recordingStore{MemoryStore: NewMemoryStore()}
	l, _ := newTestLedger(t, store, 10)

	if _, err := l.CheckAndRecord(context.Background(), mb, Identity{Address: "10.0.0.1"}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.keys) != 1 || !strings.HasPrefix(store.keys[0], "addr:") {
		t.Errorf("expected only the address counter, got %v", store.keys)
	}
}

func TestCheckAndRecord_InvalidInput(t *testing.T) {
	l, _ := newTestLedger(t, NewMemoryStore(), 10)

	tests := []struct {
		name string
		size int64
		id   Identity
	}{
		{"missing address", mb, Identity{UserID: "u-1"}},
		{"blank address", mb, Identity{Address: "   "}},
		{"negative size", -1, Identity{Address: "10.0.0.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CheckAndRecord(context.Background(), tt.size, tt.id, 0)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCheckAndRecord_StoreFailurePropagates(t *testing.T) {
	l, _ := newTestLedger(t, brokenStore{}, 10)

	_, err := l.CheckAndRecord(context.Background(), mb, Identity{UserID: "u-1", Address: "10.0.0.1"}, 0)
	if !errors.Is(err, errStoreDown) {
		t.Errorf("expected store error, got %v", err)
	}

	_, err = l.Usage(context.Background(), Identity{Address: "10.0.0.1"})
	if !errors.Is(err, errStoreDown) {
		t.Errorf("expected store error from Usage, got %v", err)
	}
}

func TestHashedKeys(t *testing.T) {
	store := &recordingStore{MemoryStore: NewMemoryStore()}
	l := NewLedger(store, WithHashedKeys())

	id := Identity{UserID: "patient-42", Address: "196.168.1.20"}
	if _, err := l.CheckAndRecord(context.Background(), mb, id, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range store.keys {
		if strings.Contains(key, "patient-42") || strings.Contains(key, "196.168.1.20") {
			t.Errorf("raw identity leaked into key %q", key)
		}
	}
	if l.userKey("patient-42") != l.userKey("patient-42") {
		t.Error("hashed keys must be deterministic")
	}
	if l.userKey("a") == l.addressKey("a") {
		t.Error("user and address namespaces must not collide")
	}
}

func TestEndOfDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"one minute before midnight", time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"just after midnight", time.Date(2026, 3, 14, 0, 1, 0, 0, time.UTC), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"end of year", time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC), time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EndOfDay(tt.in); !got.Equal(tt.want) {
				t.Errorf("EndOfDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
