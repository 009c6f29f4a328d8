package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/djabaro/stock-console/docs"
	"github.com/djabaro/stock-console/internal/api/handler"
	"github.com/djabaro/stock-console/internal/api/middleware"
	"github.com/djabaro/stock-console/internal/api/view"
	"github.com/djabaro/stock-console/internal/core/credential"
	"github.com/djabaro/stock-console/internal/core/navigation"
	"github.com/djabaro/stock-console/internal/core/ports"
	opshttp "github.com/djabaro/stock-console/internal/infrastructure/http"
	"github.com/djabaro/stock-console/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires together.
type Deps struct {
	Owners   middleware.OwnerResolver
	Menu     *navigation.Menu
	Sections view.Sections
	Renderer echo.Renderer
	Notifier ports.Notifier
	Inbox    handler.ToastInbox
	// Accounts, when non-nil, are listed on the login view.
	Accounts []credential.Account

	BrowserContext middleware.BrowserContextConfig
	// EnforceRouteRoles restricts each section to the roles that see it in
	// the menu. Off, any authenticated user may open any section.
	EnforceRouteRoles bool

	Dependencies []handlers.Dependency
	Registerer   prometheus.Registerer
	Gatherer     prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()
	e.Renderer = d.Renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "djabaro",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Ops (no browser context) ---
	opshttp.RegisterOps(e, opshttp.OpsConfig{
		Dependencies: d.Dependencies,
		Gatherer:     d.Gatherer,
	})

	// --- Dependencies ---
	pages := handler.NewPageHandler(d.Menu, d.Sections, d.Accounts, d.Inbox)
	auth := handler.NewAuthHandler(pages, d.Notifier, d.Log)
	browser := middleware.BrowserContext(d.BrowserContext, d.Owners)
	guard := middleware.Guard(d.Menu, pages.LoginView)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/dashboard")
	})

	// --- Console sections ---
	for _, entry := range d.Menu.Entries() {
		mws := []echo.MiddlewareFunc{browser, guard}
		if d.EnforceRouteRoles {
			mws = append(mws, middleware.RBAC(entry.Allowed))
		}
		e.GET(entry.Path, pages.Section, mws...)
	}

	// --- Session (form) ---
	e.POST("/login", auth.Login, browser)
	e.POST("/logout", auth.Logout, browser)

	// --- Session (JSON) ---
	e.GET("/api/session", auth.Session, browser)
	e.POST("/api/session/login", auth.APILogin, browser)
	e.POST("/api/session/logout", auth.APILogout, browser)
	e.GET("/api/navigation", auth.Navigation, browser, guard)

	return e
}
