package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/djabaro/stock-console/internal/core/session"
)

const (
	// CookieName carries the browser-context token.
	CookieName = "djabaro_ctx"
	// HeaderContextToken returns a freshly issued token to API clients.
	HeaderContextToken = "X-Djabaro-Context"

	tokenIssuer = "djabaro"

	keyOwner      = "session_owner"
	keyScope      = "scope"
	keySession    = "session"
	keyNavigation = "navigation"
)

// OwnerResolver returns the session owner of a browser context.
type OwnerResolver interface {
	Owner(ctx context.Context, scope string) *session.Machine
}

// BrowserContextConfig configures the browser-context token.
type BrowserContextConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// BrowserContext identifies the calling browser by a signed token read from
// the djabaro_ctx cookie, or from an Authorization: Bearer header. A missing
// or invalid token starts a new browser context. The matching session owner
// is stored in the echo context.
func BrowserContext(cfg BrowserContextConfig, owners OwnerResolver) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope, ok := parseContextToken(readToken(c.Request()), cfg.Secret)
			if !ok {
				scope = uuid.NewString()
				raw, err := IssueContextToken(scope, cfg.Secret, cfg.TTL, cfg.Now())
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    raw,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  cfg.Now().Add(cfg.TTL),
				})
				c.Response().Header().Set(HeaderContextToken, raw)
			}

			c.Set(keyScope, scope)
			c.Set(keyOwner, owners.Owner(c.Request().Context(), scope))
			return next(c)
		}
	}
}

func readToken(r *http.Request) string {
	if ck, err := r.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// IssueContextToken signs a browser-context token for scope.
func IssueContextToken(scope string, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   scope,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseContextToken returns the scope of a valid token.
func parseContextToken(raw string, secret []byte) (string, bool) {
	if raw == "" {
		return "", false
	}

	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !tkn.Valid {
		return "", false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Owner returns the session owner put in c by BrowserContext.
func Owner(c echo.Context) *session.Machine {
	m, _ := c.Get(keyOwner).(*session.Machine)
	return m
}

// Scope returns the browser context id put in c by BrowserContext.
func Scope(c echo.Context) string {
	s, _ := c.Get(keyScope).(string)
	return s
}
