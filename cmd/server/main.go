// @title           Djabaro Stock Console API
// @version         1.0
// @description     Session gate and role-based navigation of the Djabaro stock console.
// @BasePath        /
// @securityDefinitions.apikey BrowserContext
// @in header
// @name Authorization
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/api"
	"github.com/djabaro/stock-console/internal/api/middleware"
	"github.com/djabaro/stock-console/internal/api/view"
	"github.com/djabaro/stock-console/internal/core/credential"
	"github.com/djabaro/stock-console/internal/core/navigation"
	"github.com/djabaro/stock-console/internal/core/session"
	"github.com/djabaro/stock-console/internal/infrastructure/config"
	"github.com/djabaro/stock-console/internal/infrastructure/http/handlers"
	"github.com/djabaro/stock-console/internal/infrastructure/queue"
	"github.com/djabaro/stock-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "stock-console",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	defer st.close()

	secret, err := contextSecret(cfg.JWTSecret, log)
	if err != nil {
		return err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}
	sections, err := view.LoadSections()
	if err != nil {
		return err
	}

	inbox := queue.NewInbox(0)
	dispatcher := queue.NewDispatcher(cfg.Toasts.Workers, log, queue.NewLogSink(log), inbox)
	dispatcher.Start(ctx)

	creds := credential.Default()
	registry := session.NewRegistry(st.local, creds, session.Options{
		LoginLatency: cfg.Session.LoginLatency,
		Latch:        st.latch,
	}, log)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		registry.Run(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTTL)
	}()
	go func() {
		defer wg.Done()
		inbox.Run(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTTL)
	}()

	var accounts []credential.Account
	if cfg.UI.ShowTestAccounts {
		accounts = creds.Accounts()
	}

	e := api.NewRouter(api.Deps{
		Owners:   registry,
		Menu:     navigation.Default(),
		Sections: sections,
		Renderer: renderer,
		Notifier: dispatcher,
		Inbox:    inbox,
		Accounts: accounts,
		BrowserContext: middleware.BrowserContextConfig{
			Secret: secret,
			TTL:    cfg.Session.ContextTTL,
			Secure: !cfg.Development(),
		},
		EnforceRouteRoles: cfg.UI.EnforceRouteRoles,
		Dependencies:      []handlers.Dependency{st.local},
		Log:               log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", st.local.Name()).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("received interruption signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	wg.Wait()
	return nil
}

// contextSecret returns the browser-context signing key. Without
// JWT_SECRET a random key is used, so contexts do not survive a restart.
func contextSecret(configured string, log zerolog.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating context secret: %w", err)
	}
	log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret")
	return secret, nil
}
