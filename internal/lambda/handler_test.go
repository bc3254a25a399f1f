package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"kimbo/internal/quota"
)

const mb = 1048576

type failingChecker struct{}

func (failingChecker) CheckAndRecord(context.Context, int64, quota.Identity, float64) (bool, error) {
	return false, errors.New("table unavailable")
}

func newLedger() *quota.Ledger {
	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return quota.NewLedger(quota.NewMemoryStore(),
		quota.WithDailyLimit(10),
		quota.WithLocation(time.UTC),
		quota.WithClock(func() time.Time { return clock }),
	)
}

func event(body string, user, ip string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{
		Body:    body,
		Headers: map[string]string{},
	}
	if user != "" {
		req.Headers["x-user-id"] = user
	}
	req.RequestContext.RequestID = "req-1"
	req.RequestContext.HTTP.SourceIP = ip
	return req
}

func uploadBody(name string, size int64) string {
	data, _ := json.Marshal(UploadRequest{FileName: name, FileSizeBytes: size, ContentType: "application/pdf"})
	return string(data)
}

func errorKey(t *testing.T, resp events.APIGatewayV2HTTPResponse) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", resp.Body, err)
	}
	return body.Error
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("admits then refuses over the daily limit", func(t *testing.T) {
		h := NewHandler(newLedger(), 20*mb, false)

		resp, err := h.Handle(ctx, event(uploadBody("scan.pdf", 6*mb), "u-1", "10.0.0.1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
		}
		var ok UploadResponse
		json.Unmarshal([]byte(resp.Body), &ok)
		if !ok.Allowed || ok.Extension != "pdf" || ok.SizeMB != 6 {
			t.Errorf("unexpected response %+v", ok)
		}

		resp, _ = h.Handle(ctx, event(uploadBody("scan2.pdf", 5*mb), "u-1", "10.0.0.1"))
		if resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", resp.StatusCode)
		}
		if key := errorKey(t, resp); key != "errors.max-file-size-per-day-wait" {
			t.Errorf("unexpected error key %s", key)
		}
	})

	t.Run("base64 body", func(t *testing.T) {
		h := NewHandler(newLedger(), 20*mb, false)
		req := event(base64.StdEncoding.EncodeToString([]byte(uploadBody("a.png", mb))), "", "10.0.0.2")
		req.IsBase64Encoded = true

		if resp, _ := h.Handle(ctx, req); resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
		}
	})

	t.Run("header lookup ignores case", func(t *testing.T) {
		if got := header(map[string]string{"X-User-Id": "u-7"}, "x-user-id"); got != "u-7" {
			t.Errorf("expected u-7, got %q", got)
		}
	})

	tests := []struct {
		name   string
		req    events.APIGatewayV2HTTPRequest
		status int
		key    string
	}{
		{"malformed body", event("{", "u-1", "10.0.0.1"), http.StatusBadRequest, "errors.validation"},
		{"missing size", event(uploadBody("a.pdf", 0), "u-1", "10.0.0.1"), http.StatusBadRequest, "errors.validation"},
		{"too large", event(uploadBody("a.pdf", 21*mb), "u-1", "10.0.0.1"), http.StatusRequestEntityTooLarge, "errors.max-file-size"},
		{"missing source ip", event(uploadBody("a.pdf", mb), "u-1", ""), http.StatusBadRequest, "errors.validation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(newLedger(), 20*mb, false)
			resp, err := h.Handle(ctx, tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.StatusCode, resp.Body)
			}
			if key := errorKey(t, resp); key != tt.key {
				t.Errorf("expected %s, got %s", tt.key, key)
			}
		})
	}

	t.Run("store failure", func(t *testing.T) {
		req := event(uploadBody("a.pdf", mb), "u-1", "10.0.0.1")

		closed, _ := NewHandler(failingChecker{}, 20*mb, false).Handle(ctx, req)
		if closed.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("fail-closed: expected 503, got %d", closed.StatusCode)
		}

		open, _ := NewHandler(failingChecker{}, 20*mb, true).Handle(ctx, req)
		if open.StatusCode != http.StatusOK {
			t.Errorf("fail-open: expected 200, got %d", open.StatusCode)
		}
	})
}
