package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	apisystem "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/system"
)

// StatusReporter aggregates component readiness.
type StatusReporter interface {
	SystemStatus(ctx context.Context) apisystem.Status
}

// SystemStatusHandler reports readiness of the kitchen and its engine.
// Unauthenticated: it backs health probes and the CLI's status command.
func SystemStatusHandler(reporter StatusReporter) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := reporter.SystemStatus(c.Request().Context())
		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, status)
	}
}

// HelloHandler answers the root with an empty 204. Load balancer
// liveness checks hit this, so it carries no body and no auth.
func HelloHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}
}
