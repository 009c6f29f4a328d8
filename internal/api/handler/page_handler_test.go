package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/internal/core/session"
)

func TestPageHandler_LoggedOutShowsLogin(t *testing.T) {
	env := newTestEnv(t, session.Options{})

	called := false
	section := func(c echo.Context) error {
		called = true
		return env.pages.Section(c)
	}
	rec, err := env.serve(t, section, true, httptest.NewRequest(http.MethodGet, "/stock", nil), "/stock")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if called {
		t.Fatalf("section handler must not run while logged out")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/login"`) || !strings.Contains(body, `name="next" value="/stock"`) {
		t.Fatalf("login view not rendered for /stock:\n%s", body)
	}
	if strings.Contains(body, "État de Stock") {
		t.Fatalf("protected content leaked")
	}
}

func TestPageHandler_SectionInsideShell(t *testing.T) {
	env := newTestEnv(t, session.Options{})
	if ok, _ := env.owner().Login(context.Background(), "employe@djabaro.ci", "employe123"); !ok {
		t.Fatalf("login failed")
	}
	env.inbox.toasts = []domain.Toast{{Title: "Connexion réussie", Variant: domain.ToastDefault}}

	rec, err := env.serve(t, env.pages.Section, true, httptest.NewRequest(http.MethodGet, "/stock", nil), "/stock")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h1>État de Stock</h1>", "Employé Djabaro", `<li class="active"><a href="/stock"`, "Connexion réussie", `action="/logout"`} {
		if !strings.Contains(body, want) {
			t.Errorf("shell missing %q", want)
		}
	}
	if strings.Contains(body, `href="/rapport"`) {
		t.Errorf("employee must not see the report entry")
	}
}

func TestPageHandler_DirectAccessIsAuthenticationOnly(t *testing.T) {
	env := newTestEnv(t, session.Options{})
	if ok, _ := env.owner().Login(context.Background(), "client@djabaro.ci", "client123"); !ok {
		t.Fatalf("login failed")
	}

	rec, err := env.serve(t, env.pages.Section, true, httptest.NewRequest(http.MethodGet, "/sauvegarde", nil), "/sauvegarde")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a direct URL, got %d", rec.Code)
	}
}

func TestPageHandler_UnknownSection(t *testing.T) {
	env := newTestEnv(t, session.Options{})
	if ok, _ := env.owner().Login(context.Background(), "admin@djabaro.ci", "admin123"); !ok {
		t.Fatalf("login failed")
	}

	_, err := env.serve(t, env.pages.Section, true, httptest.NewRequest(http.MethodGet, "/inventaire", nil), "/inventaire")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
