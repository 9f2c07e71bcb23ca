package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	pkg_hash "github.com/Skotchmaster/hugelabz/pkg/hash"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
	"github.com/Skotchmaster/hugelabz/pkg/tokens"
)

const defaultTokenTTL = 24 * time.Hour

// unknownUserHash is compared against on a login miss so unknown emails cost
// the same bcrypt work as wrong passwords.
var unknownUserHash = sync.OnceValue(func() string {
	h, err := pkg_hash.HashPassword("hugelabz-unknown-user")
	if err != nil {
		return ""
	}
	return h
})

type AuthService struct {
	Repo      *repo.GormRepo
	Events    events.Publisher
	JWTSecret []byte
	TokenTTL  time.Duration
	Now       func() time.Time
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, wrap(ErrValidation, "email and password are required")
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleUser,
	}
	if err := s.createUser(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			l.Warn("register_error", "status", 400, "reason", "user already exists")
		}
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUsers, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})
	return user, nil
}

// CreateAdmin is used by seeding; it does nothing if the email is taken.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) (*models.User, bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, false, wrap(ErrValidation, "email and password are required")
	}
	if existing, err := s.Repo.FindUserByEmail(ctx, email); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{Email: email, PasswordHash: pwHash, Name: name, Role: models.RoleAdmin}
	if err := s.createUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AuthService) createUser(ctx context.Context, user *models.User) error {
	if _, err := s.Repo.FindUserByEmail(ctx, user.Email); err == nil {
		return wrap(ErrConflict, "user already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return storeErr(s.Repo.CreateUser(ctx, user), "user")
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			pkg_hash.CheckPassword(unknownUserHash(), password)
			l.Warn("login failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	exp := s.now().Add(ttl)
	token, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), user.Role, exp)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	return user, storeErr(err, "user")
}
