package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/djabaro/stock-console/internal/api/middleware"
	"github.com/djabaro/stock-console/internal/api/view"
	"github.com/djabaro/stock-console/internal/core/credential"
	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/internal/core/navigation"
)

// ToastInbox hands out the toasts waiting for a browser context.
type ToastInbox interface {
	Drain(scope string) []domain.Toast
}

// PageHandler renders the login view and the console sections.
type PageHandler struct {
	menu     *navigation.Menu
	sections view.Sections
	accounts []credential.Account
	inbox    ToastInbox
}

// NewPageHandler builds a PageHandler. A nil accounts slice hides the test
// accounts hint on the login view.
func NewPageHandler(menu *navigation.Menu, sections view.Sections, accounts []credential.Account, inbox ToastInbox) *PageHandler {
	return &PageHandler{
		menu:     menu,
		sections: sections,
		accounts: accounts,
		inbox:    inbox,
	}
}

// Section renders the section registered at the matched route inside the
// shell. It runs behind Guard.
func (h *PageHandler) Section(c echo.Context) error {
	path := c.Path()
	entry, ok := h.menu.Lookup(path)
	if !ok {
		return domain.ErrNotFound
	}

	s, ok := middleware.CurrentSession(c)
	if !ok || s.User == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	return c.Render(http.StatusOK, view.PageShell, view.ShellPage{
		Title:  entry.Label,
		User:   *s.User,
		Menu:   view.NewMenu(middleware.Navigation(c), path),
		Body:   h.sections[path],
		Toasts: h.drain(c),
	})
}

// LoginView answers a guarded route while logged out. The requested path
// becomes the post-login destination.
func (h *PageHandler) LoginView(c echo.Context) error {
	return h.renderLogin(c, http.StatusUnauthorized, view.LoginPage{
		Next: c.Request().URL.RequestURI(),
	})
}

func (h *PageHandler) renderLogin(c echo.Context, status int, page view.LoginPage) error {
	page.Next = safeNext(page.Next)
	page.Accounts = h.accounts
	page.Toasts = h.drain(c)
	return c.Render(status, view.PageLogin, page)
}

func (h *PageHandler) drain(c echo.Context) []domain.Toast {
	if h.inbox == nil {
		return nil
	}
	return h.inbox.Drain(middleware.Scope(c))
}
