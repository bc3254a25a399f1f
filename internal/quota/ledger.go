// Package quota tracks how many megabytes each identity uploaded today and
// reports when a daily ceiling is crossed.
//
// Every upload is charged to the uploader's user id (when known) and to the
// network address it came from. Counters live in a CounterStore and expire
// at the next local midnight; they are calendar-day buckets, not sliding
// windows. The attempt that crosses the limit is recorded like any other.
package quota

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

const (
	// DefaultDailyLimitMB is the ceiling used when none is configured.
	DefaultDailyLimitMB = 200

	bytesPerMB = 1048576
	keySuffix  = "files_sizes_in_mb"
)

var ErrInvalidInput = errors.New("invalid quota request")

// Identity is who an upload is charged to. Address is required.
type Identity struct {
	UserID  string
	Address string
}

// Usage is a snapshot of today's counters for one identity.
type Usage struct {
	UserMB    float64   `json:"user_mb"`
	AddressMB float64   `json:"address_mb"`
	LimitMB   float64   `json:"limit_mb"`
	ResetsAt  time.Time `json:"resets_at"`
}

// Ledger applies the daily limit on top of a CounterStore.
type Ledger struct {
	store    CounterStore
	limitMB  float64
	loc      *time.Location
	now      func() time.Time
	hashKeys bool
}

type Option func(l *Ledger)

// WithDailyLimit sets the default ceiling in megabytes.
func WithDailyLimit(mb float64) Option {
	return func(l *Ledger) {
		if mb > 0 {
			l.limitMB = mb
		}
	}
}

// WithLocation sets the time zone whose midnight ends the window.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithHashedKeys stores BLAKE3 digests of user ids and addresses instead of
// the raw values.
func WithHashedKeys() Option {
	return func(l *Ledger) {
		l.hashKeys = true
	}
}

// NewLedger creates a ledger over store.
func NewLedger(store CounterStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		limitMB: DefaultDailyLimitMB,
		loc:     time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LimitMB returns the ledger's default ceiling.
func (l *Ledger) LimitMB() float64 {
	return l.limitMB
}

// CheckAndRecord charges sizeBytes to the identity and reports whether the
// daily limit is now exceeded. limitMB <= 0 selects the ledger default.
//
// The user counter is charged first. If it crosses the limit the call returns
// true right away and the address counter is left untouched for this upload.
// Otherwise the address counter is charged and decides the result.
//
// Counter store failures are returned as errors; the caller picks between
// failing open and failing closed.
func (l *Ledger) CheckAndRecord(ctx context.Context, sizeBytes int64, id Identity, limitMB float64) (bool, error) {
	if strings.TrimSpace(id.Address) == "" {
		return false, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if sizeBytes < 0 {
		return false, fmt.Errorf("%w: size must not be negative", ErrInvalidInput)
	}
	if limitMB <= 0 {
		limitMB = l.limitMB
	}

	now := l.now().In(l.loc)
	inc := Increment{
		DeltaMB:   float64(sizeBytes) / bytesPerMB,
		At:        now,
		ExpiresAt: EndOfDay(now),
	}

	if id.UserID != "" {
		inc.Key = l.userKey(id.UserID)
		total, err := l.store.AddAndGet(ctx, inc)
		if err != nil {
			return false, fmt.Errorf("failed to record user upload: %w", err)
		}
		if total > limitMB {
			return true, nil
		}
	}

	inc.Key = l.addressKey(id.Address)
	total, err := l.store.AddAndGet(ctx, inc)
	if err != nil {
		return false, fmt.Errorf("failed to record address upload: %w", err)
	}
	return total > limitMB, nil
}

// Usage reads today's counters without charging anything.
func (l *Ledger) Usage(ctx context.Context, id Identity) (Usage, error) {
	if strings.TrimSpace(id.Address) == "" {
		return Usage{}, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	now := l.now().In(l.loc)
	u := Usage{LimitMB: l.limitMB, ResetsAt: EndOfDay(now)}

	if id.UserID != "" {
		mb, err := l.store.Get(ctx, l.userKey(id.UserID), now)
		if err != nil {
			return Usage{}, fmt.Errorf("failed to read user usage: %w", err)
		}
		u.UserMB = mb
	}

	mb, err := l.store.Get(ctx, l.addressKey(id.Address), now)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read address usage: %w", err)
	}
	u.AddressMB = mb
	return u, nil
}

// EndOfDay returns the midnight that follows t in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func (l *Ledger) userKey(userID string) string {
	return "user:" + l.identityPart(userID) + ":" + keySuffix
}

func (l *Ledger) addressKey(address string) string {
	return "addr:" + l.identityPart(strings.TrimSpace(address)) + ":" + keySuffix
}

func (l *Ledger) identityPart(v string) string {
	if !l.hashKeys {
		return v
	}
	sum := blake3.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}
