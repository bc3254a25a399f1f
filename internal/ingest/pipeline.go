// Package ingest saves uploaded files under content-addressed names.
//
// A file is stored as {directory}/{sha256}.{extension}. Images (jpg, jpeg,
// png by extension only) can be shrunk to a target width and re-encoded on
// the way in; everything else is written byte for byte. Saving identical
// content twice yields the same path and overwrites the first copy.
package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DefaultDirectory is used when SaveOptions.Directory is empty.
const DefaultDirectory = "uploads"

var (
	ErrInvalidInput = errors.New("invalid upload")
	ErrProcessing   = errors.New("image processing failed")
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
)

// Storage is the durable backend the pipeline writes to. Put must overwrite
// an existing object at the same path.
type Storage interface {
	Put(ctx context.Context, path string, r io.Reader) (int64, error)
}

// Transcoder shrinks and re-encodes image bytes. ext is the original
// extension and selects the output format.
type Transcoder interface {
	Transcode(data []byte, ext string, width int) ([]byte, error)
}

// Upload is one incoming file. Content is read exactly once.
type Upload struct {
	Content      io.Reader
	OriginalName string
	// DeclaredSize is what the transport reported; Save does not check it
	// against the bytes actually read.
	DeclaredSize int64
}

// SaveOptions controls where and how an upload is stored.
type SaveOptions struct {
	Directory  string
	ImageWidth int   // 0 disables resizing
	MaxSize    int64 // bytes, 0 means unlimited
}

// StoredFile describes a saved upload. The content hash is the Filename
// without its extension.
type StoredFile struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
	Filename  string `json:"filename"`
}

// Pipeline turns uploads into stored files.
type Pipeline struct {
	store      Storage
	transcoder Transcoder
	defaultDir string
	hashStored bool
}

type Option func(p *Pipeline)

// WithTranscoder replaces the imaging-based transcoder.
func WithTranscoder(t Transcoder) Option {
	return func(p *Pipeline) {
		p.transcoder = t
	}
}

// WithDefaultDirectory sets the directory used when a save names none.
func WithDefaultDirectory(dir string) Option {
	return func(p *Pipeline) {
		p.defaultDir = dir
	}
}

// WithHashStoredBytes names resized images after the bytes written to
// storage instead of the bytes received. Paths produced with this option
// differ from the default layout for every resized image.
func WithHashStoredBytes() Option {
	return func(p *Pipeline) {
		p.hashStored = true
	}
}

// New creates a pipeline writing to store.
func New(store Storage, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      store,
		transcoder: NewImageTranscoder(JPEGQuality),
		defaultDir: DefaultDirectory,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Save reads the upload, optionally resizes it, and writes it to storage.
// A transcoding failure aborts the save before anything is written.
func (p *Pipeline) Save(ctx context.Context, up Upload, opts SaveOptions) (*StoredFile, error) {
	if up.Content == nil {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if opts.ImageWidth < 0 {
		return nil, fmt.Errorf("%w: image width must not be negative", ErrInvalidInput)
	}

	data, err := readLimited(up.Content, opts.MaxSize)
	if err != nil {
		return nil, err
	}

	ext := Extension(up.OriginalName)
	out := data
	if IsImage(ext) && opts.ImageWidth > 0 {
		out, err = p.transcoder.Transcode(data, ext, opts.ImageWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
	}

	hashed := data
	if p.hashStored {
		hashed = out
	}
	filename := contentName(hashed, ext)

	dir := opts.Directory
	if dir == "" {
		dir = p.defaultDir
	}
	path := strings.TrimRight(dir, "/") + "/" + filename

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := p.store.Put(ctx, path, bytes.NewReader(out)); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", path, err)
	}

	return &StoredFile{
		Path:      path,
		Extension: ext,
		Filename:  filename,
	}, nil
}

// Extension returns the extension of a client-supplied filename without the
// leading dot, preserving its case.
func Extension(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	return strings.TrimPrefix(filepath.Ext(name), ".")
}

// IsImage reports whether ext names a format the pipeline can resize.
func IsImage(ext string) bool {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "png":
		return true
	}
	return false
}

func contentName(data []byte, ext string) string {
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:])
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload data: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload data: %w", err)
	}
	if int64(len(data)) > max {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
