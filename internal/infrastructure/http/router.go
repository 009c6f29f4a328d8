package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/djabaro/stock-console/internal/infrastructure/http/handlers"
)

// OpsConfig lists what the operational endpoints report on.
type OpsConfig struct {
	// Dependencies are pinged by the readiness check.
	Dependencies []handlers.Dependency
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// RegisterOps mounts the health checks, the metrics endpoint and the API docs.
func RegisterOps(e *echo.Echo, cfg OpsConfig) {
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(cfg.Dependencies...)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the store up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: cfg.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
