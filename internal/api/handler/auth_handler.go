package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/api/middleware"
	"github.com/djabaro/stock-console/internal/api/view"
	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/internal/core/ports"
)

// Messages shown on the login view.
const (
	msgLoginFailed  = "Échec de connexion - Vérifiez vos identifiants"
	msgLoginPending = "Connexion en cours, veuillez patienter"
	msgBadRequest   = "Requête invalide"
)

// AuthHandler drives the session owner of the calling browser context.
type AuthHandler struct {
	pages    *PageHandler
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewAuthHandler(pages *PageHandler, notifier ports.Notifier, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{pages: pages, notifier: notifier, log: log}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
	Next     string `json:"-" form:"next"`
}

type sessionResponse struct {
	domain.Session
	LoginPending bool `json:"loginPending"`
}

type navigationItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

type navigationResponse struct {
	Items []navigationItem `json:"items"`
}

// Login handles POST /login from the login form.
func (h *AuthHandler) Login(c echo.Context) error {
	owner, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.pages.renderLogin(c, http.StatusBadRequest, view.LoginPage{Error: msgBadRequest})
	}
	page := view.LoginPage{Email: req.Email, Next: req.Next}
	if err := c.Validate(&req); err != nil {
		page.Error = err.Error()
		return h.pages.renderLogin(c, http.StatusBadRequest, page)
	}

	ok, err := owner.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrLoginPending):
		h.log.Debug().Str("scope", middleware.Scope(c)).Msg("login rejected, another attempt in flight")
		page.Error = msgLoginPending
		return h.pages.renderLogin(c, http.StatusConflict, page)
	case err != nil:
		return err
	case !ok:
		h.notifyFailure(c)
		page.Error = msgLoginFailed
		return h.pages.renderLogin(c, http.StatusUnauthorized, page)
	}

	h.notifySuccess(c, owner.Snapshot())
	return c.Redirect(http.StatusSeeOther, safeNext(req.Next))
}

// Logout handles POST /logout. The dashboard then shows the login view.
func (h *AuthHandler) Logout(c echo.Context) error {
	owner, err := ctxOwner(c)
	if err != nil {
		return err
	}

	h.notifyLogout(c, owner.Snapshot().Authenticated)
	owner.Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, defaultLanding)
}

// Session returns the session of the calling browser context.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	owner, err := ctxOwner(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: owner.Snapshot(), LoginPending: owner.Pending()})
}

// APILogin logs the calling browser context in.
//
// @Summary      Login
// @Description  Checks the credentials after the simulated latency. Only one attempt may be in flight per browser context.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/session/login [post]
func (h *AuthHandler) APILogin(c echo.Context) error {
	owner, err := ctxOwner(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ok, err := owner.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		h.notifyFailure(c)
		return domain.ErrInvalidCredentials
	}

	snap := owner.Snapshot()
	h.notifySuccess(c, snap)
	return c.JSON(http.StatusOK, sessionResponse{Session: snap})
}

// APILogout logs the calling browser context out.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session/logout [post]
func (h *AuthHandler) APILogout(c echo.Context) error {
	owner, err := ctxOwner(c)
	if err != nil {
		return err
	}

	h.notifyLogout(c, owner.Snapshot().Authenticated)
	owner.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, sessionResponse{Session: owner.Snapshot(), LoginPending: owner.Pending()})
}

// Navigation returns the menu entries visible to the current role.
//
// @Summary      Visible navigation
// @Tags         session
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/navigation [get]
func (h *AuthHandler) Navigation(c echo.Context) error {
	entries := middleware.Navigation(c)
	items := make([]navigationItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, navigationItem{Label: e.Label, Path: e.Path, Icon: e.Icon})
	}
	return c.JSON(http.StatusOK, navigationResponse{Items: items})
}

func (h *AuthHandler) notifyFailure(c echo.Context) {
	h.notifier.Notify(middleware.Scope(c), domain.Toast{
		Title:       "Échec de connexion",
		Description: "Vérifiez vos identifiants",
		Variant:     domain.ToastDestructive,
	})
}

func (h *AuthHandler) notifySuccess(c echo.Context, s domain.Session) {
	desc := "Bienvenue sur Djabaro"
	if s.User != nil {
		desc = "Bienvenue, " + s.User.FullName()
	}
	h.notifier.Notify(middleware.Scope(c), domain.Toast{
		Title:       "Connexion réussie",
		Description: desc,
		Variant:     domain.ToastDefault,
	})
}

func (h *AuthHandler) notifyLogout(c echo.Context, wasAuthenticated bool) {
	if !wasAuthenticated {
		return
	}
	h.notifier.Notify(middleware.Scope(c), domain.Toast{
		Title:       "Déconnexion",
		Description: "Vous avez été déconnecté",
		Variant:     domain.ToastDefault,
	})
}
