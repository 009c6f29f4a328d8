package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/api/middleware"
	"github.com/djabaro/stock-console/internal/api/view"
	"github.com/djabaro/stock-console/internal/core/credential"
	"github.com/djabaro/stock-console/internal/core/navigation"
	"github.com/djabaro/stock-console/internal/core/session"
	"github.com/djabaro/stock-console/internal/infrastructure/db/memory"
	"github.com/djabaro/stock-console/internal/infrastructure/http/handlers"
	"github.com/djabaro/stock-console/internal/infrastructure/queue"
)

type client struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func newTestRouter(t *testing.T, enforceRoles bool) *client {
	t.Helper()

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	sections, err := view.LoadSections()
	if err != nil {
		t.Fatalf("sections: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := memory.NewLocalStore()
	inbox := queue.NewInbox(0)
	dispatcher := queue.NewDispatcher(1, zerolog.Nop(), inbox)
	dispatcher.Start(ctx)

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Owners:            session.NewRegistry(store, credential.Default(), session.Options{}, zerolog.Nop()),
		Menu:              navigation.Default(),
		Sections:          sections,
		Renderer:          renderer,
		Notifier:          dispatcher,
		Inbox:             inbox,
		BrowserContext:    middleware.BrowserContextConfig{Secret: []byte("router-test-secret-router-test!!"), TTL: time.Hour},
		EnforceRouteRoles: enforceRoles,
		Dependencies:      []handlers.Dependency{store},
		Registerer:        reg,
		Gatherer:          reg,
		Log:               zerolog.Nop(),
	})
	return &client{t: t, e: e}
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	cl.t.Helper()
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.CookieName {
			cl.cookie = ck
		}
	}
	return rec
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return cl.do(req)
}

func (cl *client) login(email, password string) {
	cl.t.Helper()
	rec := cl.postForm("/login", url.Values{"email": {email}, "password": {password}})
	if rec.Code != http.StatusSeeOther {
		cl.t.Fatalf("login %s: expected 303, got %d", email, rec.Code)
	}
}

func TestRouter_LoginLogoutRoundTrip(t *testing.T) {
	cl := newTestRouter(t, false)

	rec := cl.get("/stock")
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `action="/login"`) {
		t.Fatalf("logged-out /stock should show the login view, got %d", rec.Code)
	}
	if cl.cookie == nil {
		t.Fatalf("browser-context cookie not issued")
	}

	rec = cl.postForm("/login", url.Values{
		"email":    {"admin@djabaro.ci"},
		"password": {"admin123"},
		"next":     {"/stock"},
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/stock" {
		t.Fatalf("expected 303 to /stock, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec = cl.get("/stock")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "État de Stock") {
		t.Fatalf("expected the stock section, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `href="/sauvegarde"`) {
		t.Fatalf("admin should see every entry")
	}

	rec = cl.postForm("/logout", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard, got %d", rec.Code)
	}

	rec = cl.get("/dashboard")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected the login view after logout, got %d", rec.Code)
	}
}

func TestRouter_SeparateBrowsersHaveSeparateSessions(t *testing.T) {
	first := newTestRouter(t, false)
	first.login("manager@djabaro.ci", "manager123")

	second := &client{t: t, e: first.e}
	if rec := second.get("/dashboard"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("another browser must not share the session, got %d", rec.Code)
	}
	if rec := first.get("/dashboard"); rec.Code != http.StatusOK {
		t.Fatalf("first browser should stay logged in, got %d", rec.Code)
	}
}

func TestRouter_RootRedirects(t *testing.T) {
	cl := newTestRouter(t, false)

	rec := cl.get("/")
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("expected 302 to /dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRouter_UnknownPath(t *testing.T) {
	cl := newTestRouter(t, false)

	rec := cl.get("/inventaire")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML) ||
		!strings.Contains(rec.Body.String(), "Page introuvable") {
		t.Fatalf("expected the HTML not-found page, got %q", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/inventaire", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec = cl.do(req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Fatalf("expected error envelope, got %q", rec.Body.String())
	}
}

func TestRouter_RouteRoles(t *testing.T) {
	tests := []struct {
		name    string
		enforce bool
		want    int
	}{
		{name: "authentication only", enforce: false, want: http.StatusOK},
		{name: "roles enforced", enforce: true, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := newTestRouter(t, tt.enforce)
			cl.login("client@djabaro.ci", "client123")

			if rec := cl.get("/sauvegarde"); rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if rec := cl.get("/dashboard"); rec.Code != http.StatusOK {
				t.Fatalf("dashboard is open to clients, got %d", rec.Code)
			}
		})
	}
}

func TestRouter_ForbiddenSection(t *testing.T) {
	cl := newTestRouter(t, true)
	cl.login("client@djabaro.ci", "client123")

	rec := cl.get("/sauvegarde")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML) ||
		!strings.Contains(rec.Body.String(), "Accès refusé") {
		t.Fatalf("expected the HTML forbidden page, got %q", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/sauvegarde", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec = cl.do(req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] != "access forbidden" {
		t.Fatalf("expected error envelope, got %q", rec.Body.String())
	}
}

func TestRouter_SessionAPI(t *testing.T) {
	cl := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/session/login", strings.NewReader(`{"email":"client@djabaro.ci","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := cl.do(req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	if rec := cl.get("/api/navigation"); rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), `"view":"login"`) {
		t.Fatalf("expected the login marker, got %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/session/login", strings.NewReader(`{"email":"client@djabaro.ci","password":"client123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := cl.do(req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec := cl.get("/api/session")
	var resp struct {
		IsAuthenticated bool `json:"isAuthenticated"`
		User            struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.IsAuthenticated || resp.User.Role != "Client" {
		t.Fatalf("unexpected session: %s", rec.Body.String())
	}
}

func TestRouter_Ops(t *testing.T) {
	cl := newTestRouter(t, false)

	if rec := cl.get("/health"); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := cl.get("/health/ready"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"memory"`) {
		t.Fatalf("ready: expected 200 with the memory store, got %d %s", rec.Code, rec.Body.String())
	}

	cl.get("/dashboard")
	rec := cl.get("/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "djabaro_http_requests_total") {
		t.Fatalf("metrics: expected request counters, got %d", rec.Code)
	}
	if cl.cookie == nil {
		t.Fatalf("dashboard should have issued a cookie")
	}
}
