package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/inkwell/blog-api/internal/api/metrics"
)

// RateLimit caps requests per client IP using store. Probes and /metrics are
// never limited.
func RateLimit(store echomiddleware.RateLimiterStore) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/health") || p == "/metrics"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitedTotal.Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, please try again later")
		},
	})
}

// MemoryRateLimitStore is the single-process fallback used when Redis is not
// configured: a token bucket that refills max tokens per window.
func MemoryRateLimitStore(max int, window time.Duration) echomiddleware.RateLimiterStore {
	return echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(max) / window.Seconds()),
		Burst:     max,
		ExpiresIn: window,
	})
}
