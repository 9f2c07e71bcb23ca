package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hugelabz/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders every error as {"error": "..."}. Internal errors never
// leak their text to the client.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case string:
				msg = m
			case error:
				msg = m.Error()
			default:
				msg = fmt.Sprint(m)
			}
			if code >= http.StatusInternalServerError && he.Internal != nil {
				e.Logger.Error(he.Internal)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Error: msg})
		}
		if err != nil {
			e.Logger.Error(err)
		}
	}
}

// serviceError logs err under event and maps the service sentinels to HTTP
// statuses. conflict is the status used for ErrConflict.
func serviceError(l *slog.Logger, event string, err error, conflict int) *echo.HTTPError {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = conflict
	}

	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, "internal server error")
	}
	l.Warn(event, "status", status, "reason", err.Error())
	return echo.NewHTTPError(status, err.Error())
}
