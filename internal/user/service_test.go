package user

import (
	"context"
	"testing"

	"genassist/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSignup(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store, zaptest.NewLogger(t))
	ctx := context.Background()
	dept := "Engineering"

	u, err := svc.Signup(ctx, SignupRequest{
		Username:   " jdoe ",
		Password:   "s3cret-pass",
		Name:       "John Doe",
		Email:      "jdoe@example.com",
		Department: &dept,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "jdoe", u.Username)
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.True(t, VerifyPassword(u, "s3cret-pass"))
	assert.False(t, VerifyPassword(u, "wrong"))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	_, err = svc.Signup(ctx, SignupRequest{Username: "jdoe", Password: "another-pass"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestSignup_Validation(t *testing.T) {
	svc := NewService(storage.NewMemoryStore(), nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "  ", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrInvalidSignup)

	_, err = svc.Signup(ctx, SignupRequest{Username: "a", Password: "123"})
	assert.ErrorIs(t, err, ErrInvalidSignup)
}

func TestEnsureSeed_Idempotent(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSeed(ctx, "default-user"))
	require.NoError(t, svc.EnsureSeed(ctx, "default-user"))

	u, err := store.GetUser(ctx, "default-user")
	require.NoError(t, err)
	assert.Equal(t, "default-user", u.Username)
}
