package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kimbo/internal/ingest"
	"kimbo/internal/quota"
	"kimbo/internal/server/config"
	"kimbo/internal/server/storage"
)

const mb = 1048576

var errCountersDown = errors.New("counters down")

type downStore struct{}

func (downStore) AddAndGet(context.Context, quota.Increment) (float64, error) {
	return 0, errCountersDown
}

func (downStore) Get(context.Context, string, time.Time) (float64, error) {
	return 0, errCountersDown
}

func testConfig() *config.Config {
	return &config.Config{
		UploadDirectory: "uploads",
		MaxFileSize:     20 * mb,
		DailyLimitMB:    10,
	}
}

type fixture struct {
	svc  *UploadService
	root string
}

func newFixture(t *testing.T, cfg *config.Config, counters quota.CounterStore) fixture {
	t.Helper()
	root := t.TempDir()
	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ledger := quota.NewLedger(counters,
		quota.WithDailyLimit(cfg.DailyLimitMB),
		quota.WithLocation(time.UTC),
		quota.WithClock(func() time.Time { return clock }),
	)
	pipeline := ingest.New(storage.NewFileSystemStore(root))
	return fixture{svc: NewUploadService(ledger, pipeline, cfg), root: root}
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestProcessUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores file under content hash", func(t *testing.T) {
		f := newFixture(t, testConfig(), quota.NewMemoryStore())
		content := []byte("lab results")

		stored, err := f.svc.ProcessUpload(ctx, UploadRequest{
			Content:  bytes.NewReader(content),
			Filename: "results.pdf",
			Size:     int64(len(content)),
			UserID:   "u-1",
			Address:  "10.0.0.1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "uploads/" + hashOf(content) + ".pdf"
		if stored.Path != want {
			t.Errorf("expected path %s, got %s", want, stored.Path)
		}
		got, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(stored.Path)))
		if err != nil {
			t.Fatalf("stored file missing: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Error("stored bytes differ from upload")
		}
	})

	t.Run("declared size over the file limit is rejected before charging", func(t *testing.T) {
		counters := quota.NewMemoryStore()
		f := newFixture(t, testConfig(), counters)

		_, err := f.svc.ProcessUpload(ctx, UploadRequest{
			Content:  strings.NewReader("x"),
			Filename: "big.bin",
			Size:     21 * mb,
			Address:  "10.0.0.1",
		})
		if !errors.Is(err, ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
		if counters.Len() != 0 {
			t.Error("expected no counter to be charged")
		}
	})

	t.Run("second upload over the daily limit is refused and not stored", func(t *testing.T) {
		f := newFixture(t, testConfig(), quota.NewMemoryStore())
		req := func(body string, size int64) UploadRequest {
			return UploadRequest{
				Content:  strings.NewReader(body),
				Filename: "scan.txt",
				Size:     size,
				UserID:   "u-1",
				Address:  "10.0.0.1",
			}
		}

		if _, err := f.svc.ProcessUpload(ctx, req("first", 6*mb)); err != nil {
			t.Fatalf("first upload: %v", err)
		}
		_, err := f.svc.ProcessUpload(ctx, req("second", 5*mb))
		if !errors.Is(err, ErrDailyQuotaExceeded) {
			t.Fatalf("expected ErrDailyQuotaExceeded, got %v", err)
		}

		if _, err := os.Stat(filepath.Join(f.root, "uploads", hashOf([]byte("second"))+".txt")); !os.IsNotExist(err) {
			t.Error("refused upload was stored")
		}

		usage, err := f.svc.Usage(ctx, "u-1", "10.0.0.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if usage.UserMB != 11 || usage.AddressMB != 6 {
			t.Errorf("expected user 11 / address 6, got %+v", usage)
		}
	})

	t.Run("missing address", func(t *testing.T) {
		f := newFixture(t, testConfig(), quota.NewMemoryStore())

		_, err := f.svc.ProcessUpload(ctx, UploadRequest{Content: strings.NewReader("x"), Filename: "a.txt", Size: 1})
		if !errors.Is(err, ErrInvalidUpload) {
			t.Errorf("expected ErrInvalidUpload, got %v", err)
		}
	})

	t.Run("missing content", func(t *testing.T) {
		f := newFixture(t, testConfig(), quota.NewMemoryStore())

		_, err := f.svc.ProcessUpload(ctx, UploadRequest{Filename: "a.txt", Address: "10.0.0.1"})
		if !errors.Is(err, ErrInvalidUpload) {
			t.Errorf("expected ErrInvalidUpload, got %v", err)
		}
	})

	t.Run("corrupt image with resize", func(t *testing.T) {
		cfg := testConfig()
		cfg.ImageWidth = 100
		f := newFixture(t, cfg, quota.NewMemoryStore())

		_, err := f.svc.ProcessUpload(ctx, UploadRequest{
			Content:  strings.NewReader("not a jpeg"),
			Filename: "avatar.jpg",
			Size:     10,
			Address:  "10.0.0.1",
		})
		if !errors.Is(err, ErrProcessing) {
			t.Errorf("expected ErrProcessing, got %v", err)
		}
	})

	t.Run("actual bytes over the file limit", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxFileSize = 4
		f := newFixture(t, cfg, quota.NewMemoryStore())

		_, err := f.svc.ProcessUpload(ctx, UploadRequest{
			Content:  strings.NewReader("way too long"),
			Filename: "a.txt",
			Size:     3,
			Address:  "10.0.0.1",
		})
		if !errors.Is(err, ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge, got %v", err)
		}
	})
}

func TestProcessUpload_CounterStoreDown(t *testing.T) {
	ctx := context.Background()
	req := func() UploadRequest {
		return UploadRequest{
			Content:  strings.NewReader("payload"),
			Filename: "a.txt",
			Size:     7,
			UserID:   "u-1",
			Address:  "10.0.0.1",
		}
	}

	t.Run("fails closed by default", func(t *testing.T) {
		f := newFixture(t, testConfig(), downStore{})

		_, err := f.svc.ProcessUpload(ctx, req())
		if !errors.Is(err, ErrQuotaUnavailable) {
			t.Errorf("expected ErrQuotaUnavailable, got %v", err)
		}
	})

	t.Run("fails open when configured", func(t *testing.T) {
		cfg := testConfig()
		cfg.QuotaFailOpen = true
		f := newFixture(t, cfg, downStore{})

		if _, err := f.svc.ProcessUpload(ctx, req()); err != nil {
			t.Errorf("expected upload to be admitted, got %v", err)
		}
	})

	t.Run("usage reports the outage", func(t *testing.T) {
		f := newFixture(t, testConfig(), downStore{})

		if _, err := f.svc.Usage(ctx, "u-1", "10.0.0.1"); !errors.Is(err, ErrQuotaUnavailable) {
			t.Errorf("expected ErrQuotaUnavailable, got %v", err)
		}
	})
}
