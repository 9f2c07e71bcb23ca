package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hugelabz/pkg/logging"
	"github.com/Skotchmaster/hugelabz/pkg/middleware/auth"
)

// RequestLogger must run after middleware.RequestID so the id is already on the response.
// Route-level auth runs inside it, so the summary line carries the caller when known.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			l := base.With(requestAttrs(c)...)
			c.SetRequest(r.WithContext(logging.IntoContext(r.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			attrs := []any{
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if id, ok := auth.UserID(c); ok {
				attrs = append(attrs, "user_id", id.String())
			}

			switch status := c.Response().Status; {
			case status >= 500:
				if err != nil {
					attrs = append(attrs, "error", err.Error())
				}
				l.Error("request completed", attrs...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func requestAttrs(c echo.Context) []any {
	r := c.Request()
	attrs := []any{
		"method", r.Method,
		"path", c.Path(),
		"url", r.URL.Path,
		"remote_ip", c.RealIP(),
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, "user_agent", ua)
	}

	rid := r.Header.Get(echo.HeaderXRequestID)
	if rid == "" {
		rid = c.Response().Header().Get(echo.HeaderXRequestID)
	}
	if rid != "" {
		attrs = append(attrs, "request_id", rid)
	}
	return attrs
}
