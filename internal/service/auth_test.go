package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/pkg/tokens"
)

var testSecret = []byte("test-jwt-secret")

func newAuth(t *testing.T) (*AuthService, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	return &AuthService{
		Repo:      newTestRepo(t),
		Events:    rec,
		JWTSecret: testSecret,
		Now:       func() time.Time { return time.Now() },
	}, rec
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	svc, rec := newAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Buyer@Example.com ", "s3cret", "Buyer")
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.Equal(t, []string{"user_registered"}, rec.Types())

	res, err := svc.Login(ctx, "BUYER@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), res.ExpiresAt, time.Minute)

	claims, err := tokens.AccessClaimsFromToken(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@example.com", "a", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "DUP@example.com", "b", "")
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualValues(t, 1, countRows(t, svc.Repo, &models.User{}))
}

func TestAuth_RegisterValidation(t *testing.T) {
	svc, _ := newAuth(t)
	_, err := svc.Register(context.Background(), "", "pw", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(context.Background(), "a@b.c", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuth_LoginFailures(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "user@example.com", "right", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@example.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_LoginUnknownEmailDoesBcryptWork(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "known@example.com", "s3cret", "Known")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	miss := unknownUserHash()
	require.NotEmpty(t, miss)
	missCost, err := bcrypt.Cost([]byte(miss))
	require.NoError(t, err)
	userCost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, userCost, missCost)
	assert.Equal(t, miss, unknownUserHash())
}

func TestAuth_CustomTTL(t *testing.T) {
	svc, _ := newAuth(t)
	svc.TokenTTL = time.Hour
	ctx := context.Background()
	_, err := svc.Register(ctx, "ttl@example.com", "pw", "")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ttl@example.com", "pw")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)
}

func TestAuth_CreateAdminIsIdempotent(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	admin, created, err := svc.CreateAdmin(ctx, "admin@hugelabz.com", "admin123", "Admin")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	again, created, err := svc.CreateAdmin(ctx, "ADMIN@hugelabz.com", "other", "Admin")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, admin.ID, again.ID)
}

func TestAuth_Me(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, "me@example.com", "pw", "Me")
	require.NoError(t, err)

	got, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Me", got.Name)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
