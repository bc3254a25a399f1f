package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"kimbo/internal/server/config"
)

// SetupRouter creates and configures the echo router with all routes and middleware.
// The returned limiter must be stopped when the server shuts down.
func SetupRouter(handler *Handler, cfg *config.Config) (*echo.Echo, *RateLimiter) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = clientIPExtractor(cfg)

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", HeaderUserID},
	}))
	e.Use(RequestLogger())

	// Rate limiter on upload and face endpoints
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Health & reference data
	e.GET("/health", handler.HandleHealth)
	e.GET("/api/errors", handler.HandleErrors)
	e.GET("/api/countries/:code", handler.HandleCountry)

	// Quota
	e.GET("/api/quota", handler.HandleQuota)

	// Upload (rate-limited)
	e.POST("/api/upload", handler.HandleUpload, limiter.Middleware())

	// Face comparison (rate-limited)
	e.POST("/api/faces/compare", handler.HandleFaceCompare, limiter.Middleware())

	return e, limiter
}

// clientIPExtractor decides which address c.RealIP reports, and so which
// address uploads are charged to. Forwarding headers are only believed when
// the peer is a configured proxy.
func clientIPExtractor(cfg *config.Config) echo.IPExtractor {
	ranges, err := cfg.TrustedProxyRanges()
	if err != nil || len(ranges) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, r := range ranges {
		opts = append(opts, echo.TrustIPRange(r))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
