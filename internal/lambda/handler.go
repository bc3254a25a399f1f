// Package lambda serves the upload pre-check behind API Gateway: the client
// declares the file it is about to upload and the handler charges it to the
// daily quota before the client sends any bytes.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"kimbo/internal/errcode"
	"kimbo/internal/ingest"
	"kimbo/internal/quota"
)

const headerUserID = "x-user-id"

// UploadRequest is the JSON body sent by clients to POST /uploads.
type UploadRequest struct {
	FileName      string `json:"fileName"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	ContentType   string `json:"contentType"`
}

// UploadResponse is returned when the upload may proceed.
type UploadResponse struct {
	Allowed   bool    `json:"allowed"`
	FileName  string  `json:"fileName"`
	Extension string  `json:"extension"`
	SizeMB    float64 `json:"sizeMb"`
}

// ErrorResponse is returned for any refused request. Error is a stable
// error key.
type ErrorResponse struct {
	Error   errcode.Code `json:"error"`
	Message string       `json:"message"`
}

// Checker charges an upload against the daily quota.
type Checker interface {
	CheckAndRecord(ctx context.Context, sizeBytes int64, id quota.Identity, limitMB float64) (bool, error)
}

// Handler handles API Gateway HTTP API (payload v2) events.
type Handler struct {
	ledger      Checker
	maxFileSize int64
	failOpen    bool
}

func NewHandler(ledger Checker, maxFileSize int64, failOpen bool) *Handler {
	return &Handler{ledger: ledger, maxFileSize: maxFileSize, failOpen: failOpen}
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	log := slog.With("request_id", req.RequestContext.RequestID)

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errorResponse(http.StatusBadRequest, errcode.Validation, "body is not valid base64"), nil
		}
		body = string(decoded)
	}

	var up UploadRequest
	if err := json.Unmarshal([]byte(body), &up); err != nil {
		return errorResponse(http.StatusBadRequest, errcode.Validation, "body must be a JSON upload request"), nil
	}
	if strings.TrimSpace(up.FileName) == "" || up.FileSizeBytes <= 0 {
		return errorResponse(http.StatusBadRequest, errcode.Validation, "fileName and a positive fileSizeBytes are required"), nil
	}
	if h.maxFileSize > 0 && ingest.IsMaxFileSize(up.FileSizeBytes, ingest.SizeInMB(h.maxFileSize)) {
		return errorResponse(http.StatusRequestEntityTooLarge, errcode.FileTooBig, "file exceeds maximum allowed size"), nil
	}

	id := quota.Identity{
		UserID:  strings.TrimSpace(header(req.Headers, headerUserID)),
		Address: req.RequestContext.HTTP.SourceIP,
	}
	exceeded, err := h.ledger.CheckAndRecord(ctx, up.FileSizeBytes, id, 0)
	if err != nil {
		if errors.Is(err, quota.ErrInvalidInput) {
			return errorResponse(http.StatusBadRequest, errcode.Validation, err.Error()), nil
		}
		if !h.failOpen {
			log.Error("quota check failed", "address", id.Address, "error", err)
			return errorResponse(http.StatusServiceUnavailable, errcode.Wait, "upload quota is temporarily unavailable"), nil
		}
		log.Warn("quota check failed, admitting upload", "address", id.Address, "error", err)
	}
	if exceeded {
		log.Info("daily upload limit reached", "user_id", id.UserID, "address", id.Address)
		return errorResponse(http.StatusTooManyRequests, errcode.DailyUploadLimit, "daily upload limit reached, try again tomorrow"), nil
	}

	return jsonResponse(http.StatusOK, UploadResponse{
		Allowed:   true,
		FileName:  up.FileName,
		Extension: ingest.Extension(up.FileName),
		SizeMB:    ingest.SizeInMB(up.FileSizeBytes),
	}), nil
}

func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func errorResponse(status int, code errcode.Code, message string) events.APIGatewayV2HTTPResponse {
	return jsonResponse(status, ErrorResponse{Error: code, Message: message})
}

func jsonResponse(status int, v any) events.APIGatewayV2HTTPResponse {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"errors.unknown","message":"failed to encode response"}`)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}
