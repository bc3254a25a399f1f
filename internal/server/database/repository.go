package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"kimbo/internal/quota"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CounterRepository keeps quota counters in Postgres. Each increment is a
// single upsert, so concurrent uploads from many instances never lose a
// write.
type CounterRepository struct {
	db *DB
}

// NewCounterRepository creates a new CounterRepository.
func NewCounterRepository(db *DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// AddAndGet adds inc.DeltaMB to the counter, restarting it when it has
// expired, and returns the new value.
func (r *CounterRepository) AddAndGet(ctx context.Context, inc quota.Increment) (float64, error) {
	query, args, err := upsertCounterSQL(inc)
	if err != nil {
		return 0, fmt.Errorf("failed to build upsert: %w", err)
	}

	var mb float64
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&mb); err != nil {
		return 0, fmt.Errorf("failed to upsert counter %s: %w", inc.Key, err)
	}
	return mb, nil
}

// Get returns the live value of key at instant at, or 0.
func (r *CounterRepository) Get(ctx context.Context, key string, at time.Time) (float64, error) {
	query, args, err := selectCounterSQL(key, at)
	if err != nil {
		return 0, fmt.Errorf("failed to build select: %w", err)
	}

	var mb float64
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&mb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get counter %s: %w", key, err)
	}
	return mb, nil
}

// Sweep deletes every counter that has expired at instant at.
func (r *CounterRepository) Sweep(ctx context.Context, at time.Time) (int64, error) {
	query, args, err := sweepCountersSQL(at)
	if err != nil {
		return 0, fmt.Errorf("failed to build sweep: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep counters: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetStats returns aggregate statistics over the counters live at instant at.
func (r *CounterRepository) GetStats(ctx context.Context, at time.Time) (*Stats, error) {
	query, args, err := psql.
		Select("COUNT(*)", "COALESCE(SUM(mb), 0)").
		From(countersTable).
		Where(sq.Gt{"expires_at": at}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	stats := &Stats{}
	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&stats.ActiveCounters, &stats.TotalMB); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

func upsertCounterSQL(inc quota.Increment) (string, []any, error) {
	return psql.
		Insert(countersTable).
		Columns("key", "mb", "expires_at").
		Values(inc.Key, inc.DeltaMB, inc.ExpiresAt).
		Suffix(`ON CONFLICT (key) DO UPDATE
SET mb = CASE WHEN quota_counters.expires_at <= ? THEN EXCLUDED.mb ELSE quota_counters.mb + EXCLUDED.mb END,
	expires_at = EXCLUDED.expires_at
RETURNING mb`, inc.At).
		ToSql()
}

func selectCounterSQL(key string, at time.Time) (string, []any, error) {
	return psql.
		Select("mb").
		From(countersTable).
		Where(sq.Eq{"key": key}).
		Where(sq.Gt{"expires_at": at}).
		Limit(1).
		ToSql()
}

func sweepCountersSQL(at time.Time) (string, []any, error) {
	return psql.
		Delete(countersTable).
		Where(sq.LtOrEq{"expires_at": at}).
		ToSql()
}
