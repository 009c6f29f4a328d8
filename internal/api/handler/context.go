package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/djabaro/stock-console/internal/api/middleware"
	"github.com/djabaro/stock-console/internal/core/session"
)

// defaultLanding is where a successful login lands without a next path.
const defaultLanding = "/dashboard"

// ctxOwner extracts the session owner injected by the BrowserContext
// middleware. Its absence means the route was wired without it.
func ctxOwner(c echo.Context) (*session.Machine, error) {
	m := middleware.Owner(c)
	if m == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing browser context")
	}
	return m, nil
}

// safeNext keeps only local absolute paths, so a login cannot redirect
// off-site.
func safeNext(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return defaultLanding
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return defaultLanding
	}
	switch u.Path {
	case "/", "/login", "/logout":
		return defaultLanding
	}
	return u.RequestURI()
}
