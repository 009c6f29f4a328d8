package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/internal/core/navigation"
	"github.com/djabaro/stock-console/pkg/metrics"
)

// Guard lets a request reach its handler only when the browser context is
// authenticated. Otherwise loginView answers instead, or a JSON
// {"view":"login"} with 401 for API clients. Passing requests carry the
// session snapshot and the role-filtered menu.
func Guard(menu *navigation.Menu, loginView echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner := Owner(c)
			if owner == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing browser context")
			}

			snap := owner.Snapshot()
			if !snap.Authenticated {
				metrics.GuardDecisionsTotal.WithLabelValues("login").Inc()
				if WantsJSON(c) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"view": "login"})
				}
				return loginView(c)
			}

			metrics.GuardDecisionsTotal.WithLabelValues("shell").Inc()
			c.Set(keySession, snap)
			c.Set(keyNavigation, menu.Visible(snap.Role()))
			return next(c)
		}
	}
}

// WantsJSON reports whether the caller is an API client.
func WantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// CurrentSession returns the snapshot put in c by Guard.
func CurrentSession(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(keySession).(domain.Session)
	return s, ok
}

// Navigation returns the visible menu put in c by Guard.
func Navigation(c echo.Context) []navigation.Entry {
	entries, _ := c.Get(keyNavigation).([]navigation.Entry)
	return entries
}
