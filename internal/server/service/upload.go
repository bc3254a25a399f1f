package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"kimbo/internal/ingest"
	"kimbo/internal/quota"
	"kimbo/internal/server/config"
)

// Sentinel errors for the service layer.
var (
	ErrInvalidUpload      = errors.New("invalid upload")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrDailyQuotaExceeded = errors.New("daily upload limit reached")
	ErrProcessing         = errors.New("failed to process image")
	ErrQuotaUnavailable   = errors.New("quota ledger unavailable")
)

// Ledger is the quota surface the service needs.
type Ledger interface {
	CheckAndRecord(ctx context.Context, sizeBytes int64, id quota.Identity, limitMB float64) (bool, error)
	Usage(ctx context.Context, id quota.Identity) (quota.Usage, error)
}

// Saver stores an upload and names it.
type Saver interface {
	Save(ctx context.Context, up ingest.Upload, opts ingest.SaveOptions) (*ingest.StoredFile, error)
}

// UploadRequest is one upload as received by a transport.
type UploadRequest struct {
	Content  io.Reader
	Filename string
	// Size is the size declared by the client, used for the size check and
	// the quota charge.
	Size       int64
	UserID     string
	Address    string
	ImageWidth int // 0 uses the configured width
}

// UploadService contains the business logic for file uploads.
type UploadService struct {
	ledger   Ledger
	pipeline Saver
	cfg      *config.Config
}

// NewUploadService creates a new upload service.
func NewUploadService(ledger Ledger, pipeline Saver, cfg *config.Config) *UploadService {
	return &UploadService{
		ledger:   ledger,
		pipeline: pipeline,
		cfg:      cfg,
	}
}

// ProcessUpload charges the upload against the daily quota and, when the
// caller is still within it, saves the file.
func (s *UploadService) ProcessUpload(ctx context.Context, req UploadRequest) (*ingest.StoredFile, error) {
	if req.Content == nil || req.Size < 0 {
		return nil, fmt.Errorf("%w: missing content", ErrInvalidUpload)
	}

	// 1. Declared size against the per-file ceiling
	if ingest.IsMaxFileSize(req.Size, ingest.SizeInMB(s.cfg.MaxFileSize)) {
		return nil, ErrFileTooLarge
	}

	// 2. Daily quota. The attempt is charged even when it is refused.
	id := quota.Identity{UserID: req.UserID, Address: req.Address}
	exceeded, err := s.ledger.CheckAndRecord(ctx, req.Size, id, 0)
	if err != nil {
		if errors.Is(err, quota.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
		}
		if !s.cfg.QuotaFailOpen {
			slog.Error("quota check failed", "user_id", req.UserID, "address", req.Address, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrQuotaUnavailable, err)
		}
		slog.Warn("quota check failed, admitting upload", "user_id", req.UserID, "address", req.Address, "error", err)
	}
	if exceeded {
		slog.Info("daily upload limit reached",
			"user_id", req.UserID,
			"address", req.Address,
			"size_mb", ingest.SizeInMB(req.Size),
		)
		return nil, ErrDailyQuotaExceeded
	}

	// 3. Store
	width := req.ImageWidth
	if width == 0 {
		width = s.cfg.ImageWidth
	}
	stored, err := s.pipeline.Save(ctx, ingest.Upload{
		Content:      req.Content,
		OriginalName: req.Filename,
		DeclaredSize: req.Size,
	}, ingest.SaveOptions{
		Directory:  s.cfg.UploadDirectory,
		ImageWidth: width,
		MaxSize:    s.cfg.MaxFileSize,
	})
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
		case errors.Is(err, ingest.ErrFileTooLarge):
			return nil, ErrFileTooLarge
		case errors.Is(err, ingest.ErrProcessing):
			return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	slog.Info("upload processed",
		"path", stored.Path,
		"filename", req.Filename,
		"size", req.Size,
		"user_id", req.UserID,
	)
	return stored, nil
}

// Usage returns today's quota usage for the caller.
func (s *UploadService) Usage(ctx context.Context, userID, address string) (quota.Usage, error) {
	u, err := s.ledger.Usage(ctx, quota.Identity{UserID: userID, Address: address})
	if err != nil {
		if errors.Is(err, quota.ErrInvalidInput) {
			return quota.Usage{}, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
		}
		return quota.Usage{}, fmt.Errorf("%w: %v", ErrQuotaUnavailable, err)
	}
	return u, nil
}
