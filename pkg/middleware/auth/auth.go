package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hugelabz/pkg/tokens"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	tokenKey  = "token"
	userIDKey = "user_id"
	roleKey   = "role"
)

// TokenAuth validates HS256 access tokens carried either as
// "Authorization: Bearer <jwt>" or in the accessToken cookie.
type TokenAuth struct {
	required echo.MiddlewareFunc
	optional echo.MiddlewareFunc
}

func NewTokenAuth(secret []byte) *TokenAuth {
	return &TokenAuth{
		required: echojwt.WithConfig(jwtConfig(secret, false)),
		optional: echojwt.WithConfig(jwtConfig(secret, true)),
	}
}

func jwtConfig(secret []byte, optional bool) echojwt.Config {
	return echojwt.Config{
		SigningKey:    secret,
		SigningMethod: "HS256",
		ContextKey:    tokenKey,
		TokenLookup:   "header:Authorization:Bearer ,cookie:" + tokens.AccessCookie,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		SuccessHandler: setUserContext,
		ErrorHandler: func(c echo.Context, err error) error {
			var tokenErr *echojwt.TokenError
			invalid := errors.As(err, &tokenErr)
			if optional && !invalid {
				// no credentials at all: continue as anonymous
				return nil
			}
			if invalid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token").SetInternal(err)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token").SetInternal(err)
		},
		ContinueOnIgnoredError: optional,
	}
}

func (m *TokenAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.required(func(c echo.Context) error {
		if _, ok := UserID(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}
		return next(c)
	})
}

// OptionalAuth lets anonymous requests through but still rejects a present, invalid token.
func (m *TokenAuth) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.optional(next)
}

func (m *TokenAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		if Role(c) != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

func setUserContext(c echo.Context) {
	token, ok := c.Get(tokenKey).(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*tokens.AccessClaims)
	if !ok {
		return
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return
	}
	c.Set(userIDKey, id)
	c.Set(roleKey, claims.Role)
}

// UserID reports the authenticated user, if any.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	return id, ok
}

func Role(c echo.Context) string {
	role, _ := c.Get(roleKey).(string)
	return role
}
