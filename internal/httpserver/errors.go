package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_catalog/internal/service"
)

// fail logs a service error at the level its status deserves and converts
// it to an echo error. Client errors carry the cause, server errors do not.
func fail(l *slog.Logger, event string, err error) error {
	status := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		l.Error(event, "status", status, "error", err)
		return echo.NewHTTPError(status, http.StatusText(status))
	default:
		l.Warn(event, "status", status, "error", err)
		return echo.NewHTTPError(status, err.Error())
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}
