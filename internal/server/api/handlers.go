package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"kimbo/internal/country"
	"kimbo/internal/errcode"
	"kimbo/internal/face"
	"kimbo/internal/format"
	"kimbo/internal/server/service"
)

// HeaderUserID carries the authenticated user id set by the gateway in front
// of this service.
const HeaderUserID = "X-User-ID"

// maxFaceImageSize bounds each image accepted by the face comparison proxy.
const maxFaceImageSize = 10 << 20

// FaceComparer compares two face images.
type FaceComparer interface {
	Compare(ctx context.Context, a, b face.Image) (face.Result, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler contains the HTTP handlers for the kimbo API.
type Handler struct {
	svc        *service.UploadService
	faces      FaceComparer
	health     HealthChecker
	production bool
}

type HandlerOption func(h *Handler)

// WithFaceComparer enables POST /api/faces/compare.
func WithFaceComparer(f FaceComparer) HandlerOption {
	return func(h *Handler) {
		h.faces = f
	}
}

// WithHealthChecker adds a store check to GET /health.
func WithHealthChecker(hc HealthChecker) HandlerOption {
	return func(h *Handler) {
		h.health = hc
	}
}

// WithProduction hides error details from responses.
func WithProduction(production bool) HandlerOption {
	return func(h *Handler) {
		h.production = production
	}
}

// NewHandler creates a new handler with the given service dependency.
func NewHandler(svc *service.UploadService, opts ...HandlerOption) *Handler {
	h := &Handler{svc: svc}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleUpload handles POST /api/upload.
// Accepts a multipart form with a "file" field and an optional "width" field.
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.errorJSON(c, http.StatusBadRequest, errcode.NoFile, "file is required (use form field 'file')", nil)
	}

	width := 0
	if raw := c.FormValue("width"); raw != "" {
		width, err = strconv.Atoi(raw)
		if err != nil || width < 0 {
			return h.errorJSON(c, http.StatusBadRequest, errcode.Validation, "width must be a non-negative integer", err)
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return h.errorJSON(c, http.StatusInternalServerError, errcode.Unknown, "failed to read uploaded file", err)
	}
	defer src.Close()

	stored, err := h.svc.ProcessUpload(c.Request().Context(), service.UploadRequest{
		Content:    src,
		Filename:   fileHeader.Filename,
		Size:       fileHeader.Size,
		UserID:     strings.TrimSpace(c.Request().Header.Get(HeaderUserID)),
		Address:    c.RealIP(),
		ImageWidth: width,
	})
	if err != nil {
		return h.mapServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, stored)
}

// HandleQuota handles GET /api/quota.
// Returns today's usage for the calling user and address.
func (h *Handler) HandleQuota(c echo.Context) error {
	usage, err := h.svc.Usage(
		c.Request().Context(),
		strings.TrimSpace(c.Request().Header.Get(HeaderUserID)),
		c.RealIP(),
	)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, usage)
}

// HandleFaceCompare handles POST /api/faces/compare.
// Forwards the multipart fields "image_1" and "image_2" to the face service.
func (h *Handler) HandleFaceCompare(c echo.Context) error {
	if h.faces == nil {
		return h.errorJSON(c, http.StatusServiceUnavailable, errcode.NotReady, "face comparison is not configured", nil)
	}

	a, err := formImage(c, "image_1")
	if err != nil {
		return h.errorJSON(c, http.StatusBadRequest, errcode.NoFile, "image_1 is required", err)
	}
	b, err := formImage(c, "image_2")
	if err != nil {
		return h.errorJSON(c, http.StatusBadRequest, errcode.NoFile, "image_2 is required", err)
	}

	res, err := h.faces.Compare(c.Request().Context(), a, b)
	if err != nil {
		if errors.Is(err, face.ErrInvalidImage) {
			return h.errorJSON(c, http.StatusBadRequest, errcode.WrongFileType, "invalid image", err)
		}
		return h.errorJSON(c, http.StatusBadGateway, errcode.Unknown, "face comparison failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

// HandleCountry handles GET /api/countries/:code.
// The "lang" query parameter selects fr or en (default).
func (h *Handler) HandleCountry(c echo.Context) error {
	code := c.Param("code")
	lang := c.QueryParam("lang")
	if lang == "" {
		lang = country.English
	}

	name, err := country.Translate(code, lang)
	switch {
	case errors.Is(err, country.ErrUnsupportedLanguage):
		return h.errorJSON(c, http.StatusBadRequest, errcode.Validation, err.Error(), nil)
	case errors.Is(err, country.ErrUnknownCountry):
		return h.errorJSON(c, http.StatusNotFound, errcode.NotFound, "unknown country code", nil)
	case err != nil:
		return h.errorJSON(c, http.StatusInternalServerError, errcode.Unknown, "internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"code": strings.ToLower(strings.TrimSpace(code)),
		"lang": lang,
		"name": name,
	})
}

// HandleErrors handles GET /api/errors.
// Lists every error key clients may receive.
func (h *Handler) HandleErrors(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"errors": errcode.All(),
	})
}

// HandleHealth handles GET /health.
// Returns the health status of the server, including counter store connectivity.
func (h *Handler) HandleHealth(c echo.Context) error {
	status := "healthy"
	storeStatus := "connected"

	if h.health == nil {
		storeStatus = "in-process"
	} else if err := h.health.HealthCheck(c.Request().Context()); err != nil {
		status = "degraded"
		storeStatus = fmt.Sprintf("error: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":        status,
		"counter_store": storeStatus,
	})
}

// mapServiceError translates service-layer errors into HTTP responses
// carrying a stable error key.
func (h *Handler) mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidUpload):
		return h.errorJSON(c, http.StatusBadRequest, errcode.Validation, "invalid upload", err)
	case errors.Is(err, service.ErrFileTooLarge):
		return h.errorJSON(c, http.StatusRequestEntityTooLarge, errcode.FileTooBig, "file exceeds maximum allowed size", nil)
	case errors.Is(err, service.ErrDailyQuotaExceeded):
		return h.errorJSON(c, http.StatusTooManyRequests, errcode.DailyUploadLimit, "daily upload limit reached, try again tomorrow", nil)
	case errors.Is(err, service.ErrProcessing):
		return h.errorJSON(c, http.StatusUnprocessableEntity, errcode.WrongFileType, "image could not be processed", err)
	case errors.Is(err, service.ErrQuotaUnavailable):
		return h.errorJSON(c, http.StatusServiceUnavailable, errcode.Wait, "upload quota is temporarily unavailable", err)
	default:
		return h.errorJSON(c, http.StatusInternalServerError, errcode.Unknown, "internal server error", err)
	}
}

func (h *Handler) errorJSON(c echo.Context, status int, code errcode.Code, message string, cause error) error {
	body := echo.Map{
		"error": message,
		"code":  code,
	}
	if detail := format.DebugOnly(h.production, cause); detail != nil {
		body["detail"] = detail.Error()
	}
	return c.JSON(status, body)
}

func formImage(c echo.Context, field string) (face.Image, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return face.Image{}, err
	}
	return readImage(fh)
}

func readImage(fh *multipart.FileHeader) (face.Image, error) {
	if fh.Size > maxFaceImageSize {
		return face.Image{}, fmt.Errorf("%s exceeds %d bytes", fh.Filename, maxFaceImageSize)
	}
	f, err := fh.Open()
	if err != nil {
		return face.Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFaceImageSize))
	if err != nil {
		return face.Image{}, err
	}
	return face.Image{Filename: fh.Filename, Data: data}, nil
}
