package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/internal/transport"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
	middleware "github.com/Skotchmaster/hugelabz/pkg/middleware/auth"
	"github.com/Skotchmaster/hugelabz/pkg/tokens"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			l.Warn("register_failed", "status", 400, "reason", "user already exists")
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
		return serviceError(l, "register_failed", err, http.StatusBadRequest)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return serviceError(l, "login_failed", err, http.StatusConflict)
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.Token, "/", res.ExpiresAt, h.CookieSecure))

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{User: res.User, Token: res.Token})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", h.CookieSecure))
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Svc.Me(ctx, userID)
	if err != nil {
		return serviceError(l, "me_failed", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, user)
}
