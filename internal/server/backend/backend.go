// Package backend opens the counter store selected in the configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"kimbo/internal/quota"
	"kimbo/internal/quota/dynamostore"
	"kimbo/internal/quota/pebblestore"
	"kimbo/internal/server/config"
	"kimbo/internal/server/database"
)

// probeKey is read by HealthCheck; it never holds a counter.
const probeKey = "health:probe"

// Backend is an open counter store plus whatever it needs closed.
type Backend struct {
	Kind     string
	Counters quota.CounterStore
	db       *database.DB
	closers  []func() error
}

// Open connects to the counter store named by cfg.CounterStore.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Kind: cfg.CounterStore}

	switch cfg.CounterStore {
	case config.StoreMemory:
		b.Counters = quota.NewMemoryStore()

	case config.StorePostgres:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, err
		}
		b.db = db
		b.Counters = database.NewCounterRepository(db)
		b.closers = append(b.closers, func() error { db.Close(); return nil })

	case config.StorePebble:
		store, err := pebblestore.Open(cfg.PebblePath)
		if err != nil {
			return nil, err
		}
		b.Counters = quota.NewLockedStore(store, cfg.LockTimeout)
		b.closers = append(b.closers, store.Close)

	case config.StoreDynamo:
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.DynamoRegion != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.DynamoRegion))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		b.Counters = dynamostore.New(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable)

	default:
		return nil, fmt.Errorf("%w: unknown counter_store %q", config.ErrInvalidConfig, cfg.CounterStore)
	}

	slog.Info("counter store ready", "kind", b.Kind)
	return b, nil
}

// Ledger builds the quota ledger over the open store.
func (b *Backend) Ledger(cfg *config.Config) *quota.Ledger {
	opts := []quota.Option{
		quota.WithDailyLimit(cfg.DailyLimitMB),
		quota.WithLocation(cfg.Location()),
	}
	if cfg.HashIdentityKeys {
		opts = append(opts, quota.WithHashedKeys())
	}
	return quota.NewLedger(b.Counters, opts...)
}

// Sweeper returns a sweeper for stores that can drop expired counters
// themselves. DynamoDB expires items through its TTL attribute instead.
func (b *Backend) Sweeper(interval time.Duration) (*quota.Sweeper, bool) {
	s, ok := b.Counters.(quota.Sweepable)
	if !ok || interval <= 0 {
		return nil, false
	}
	return quota.NewSweeper(s, interval), true
}

// HealthCheck verifies the counter store answers.
func (b *Backend) HealthCheck(ctx context.Context) error {
	if b.db != nil {
		return b.db.HealthCheck(ctx)
	}
	_, err := b.Counters.Get(ctx, probeKey, time.Now())
	return err
}

// Close releases the store's resources.
func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
