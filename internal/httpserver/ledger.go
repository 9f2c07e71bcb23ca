package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/internal/util"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
	middleware "github.com/Skotchmaster/hugelabz/pkg/middleware/auth"
)

type LedgerHTTP struct {
	Svc *service.LedgerService
}

func (h *LedgerHTTP) ListVerifications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ledger.list")

	limit := util.ParseIntDefault(c.QueryParam("limit"), 0)
	items, err := h.Svc.ListVerifications(ctx, limit)
	if err != nil {
		l.Error("list_verifications_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list verifications")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *LedgerHTTP) MyVerifications(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ledger.mine")

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.UserVerifications(ctx, userID)
	if err != nil {
		l.Error("my_verifications_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list verifications")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *LedgerHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	dash, err := h.Svc.Dashboard(ctx)
	if err != nil {
		l.Error("dashboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build dashboard")
	}
	return c.JSON(http.StatusOK, dash)
}
