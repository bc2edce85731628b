package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/internal/tokens"
)

func TestUserService_GetUpdateDelete(t *testing.T) {
	t.Parallel()

	rp := newTestRepo(t)
	auth := &AuthService{Repo: rp, Issuer: tokens.NewIssuer([]byte("test-jwt-secret"), 0, 0)}
	svc := &UserService{Repo: rp}
	ctx := context.Background()

	reg, err := auth.Register(ctx, "Alice", "alice@example.com", "pw123456")
	require.NoError(t, err)

	got, err := svc.Get(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	name := "Alice B"
	updated, err := svc.Update(ctx, reg.User.ID, UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)

	require.NoError(t, svc.Delete(ctx, reg.User.ID))
	_, err = svc.Get(ctx, reg.User.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	t.Parallel()

	rp := newTestRepo(t)
	auth := &AuthService{Repo: rp, Issuer: tokens.NewIssuer([]byte("test-jwt-secret"), 0, 0)}
	svc := &UserService{Repo: rp}
	ctx := context.Background()

	a, err := auth.Register(ctx, "Alice", "alice@example.com", "pw123456")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Bob", "bob@example.com", "pw123456")
	require.NoError(t, err)

	taken := "bob@example.com"
	_, err = svc.Update(ctx, a.User.ID, UserUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_Get_Missing(t *testing.T) {
	t.Parallel()

	svc := &UserService{Repo: newTestRepo(t)}
	_, err := svc.Get(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, ErrNotFound)
}
