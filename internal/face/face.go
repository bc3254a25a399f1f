// Package face talks to the face-comparison service. The service receives
// two images as multipart fields image_1 and image_2 and answers with a JSON
// object describing whether they show the same person.
package face

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrInvalidURL       = errors.New("face service URL is invalid or empty")
	ErrInvalidImage     = errors.New("invalid image")
	ErrUnexpectedStatus = errors.New("face service returned an error status")
	ErrInvalidResponse  = errors.New("face service returned an invalid response")
)

// Image is one side of a comparison.
type Image struct {
	Filename string
	Data     []byte
}

// Result is the decoded JSON object returned by the service.
type Result map[string]any

// Client compares faces through the remote service.
type Client struct {
	url  string
	http *http.Client
}

type Option func(c *Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// New returns a client for the service at serviceURL, which must be an
// absolute http or https URL.
func New(serviceURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(serviceURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, serviceURL)
	}

	c := &Client{
		url:  u.String(),
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compare sends both images to the service and returns its verdict.
func (c *Client) Compare(ctx context.Context, a, b Image) (Result, error) {
	res, err := c.compare(ctx, a, b)
	if err != nil {
		slog.Error("error occurred during image comparison", "error", err)
		return nil, err
	}
	return res, nil
}

// CompareFiles reads two image files and compares them.
func (c *Client) CompareFiles(ctx context.Context, path1, path2 string) (Result, error) {
	a, err := readImage(path1)
	if err != nil {
		slog.Error("error occurred during image comparison", "error", err)
		return nil, err
	}
	b, err := readImage(path2)
	if err != nil {
		slog.Error("error occurred during image comparison", "error", err)
		return nil, err
	}
	return c.Compare(ctx, a, b)
}

func (c *Client) compare(ctx context.Context, a, b Image) (Result, error) {
	body, contentType, err := encodeImages(a, b)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call face service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidResponse)
	}
	return res, nil
}

func encodeImages(a, b Image) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, part := range []struct {
		field string
		img   Image
	}{
		{"image_1", a},
		{"image_2", b},
	} {
		if len(part.img.Data) == 0 {
			return nil, "", fmt.Errorf("%w: %s is empty", ErrInvalidImage, part.field)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			part.field, quoteEscaper.Replace(filepath.Base(part.img.Filename))))
		h.Set("Content-Type", http.DetectContentType(part.img.Data))

		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create %s part: %w", part.field, err)
		}
		if _, err := pw.Write(part.img.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write %s part: %w", part.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func readImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return Image{Filename: filepath.Base(path), Data: data}, nil
}
