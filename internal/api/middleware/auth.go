package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell/blog-api/internal/api/handler"
	"github.com/inkwell/blog-api/internal/api/metrics"
	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// Auth verifies the token in the Authorization header and injects the author
// into context. A missing token is 401; a token that does not verify is 403.
func Auth(tokens ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := tokens.Verify(bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)))
			if err != nil {
				if errors.Is(err, domain.ErrTokenMissing) {
					metrics.AuthRejectionsTotal.WithLabelValues("missing").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "missing token").SetInternal(err)
				}
				metrics.AuthRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "invalid token").SetInternal(err)
			}

			c.Set(handler.ContextKeyUsername, identity.Username)
			return next(c)
		}
	}
}

// bearerToken accepts "Bearer <jwt>" and, for older clients, a bare "<jwt>".
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	return header
}
