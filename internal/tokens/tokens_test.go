package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer([]byte("test-jwt-secret"), 15*time.Minute, 24*time.Hour)
}

func TestIssueAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	userID := uuid.NewString()

	token, exp, err := iss.IssueAccess(userID, "alice@example.com", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, time.Second)

	claims, err := iss.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, TypeAccess, claims.Type)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssueRefresh_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	userID := uuid.NewString()

	token, exp, err := iss.IssueRefresh(userID, "alice@example.com", "Alice")
	require.NoError(t, err)

	claims, err := iss.ParseRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, TypeRefresh, claims.Type)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestParse_TypeConfusionRejected(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()

	access, _, err := iss.IssueAccess("u1", "a@b.c", "A")
	require.NoError(t, err)
	refresh, _, err := iss.IssueRefresh("u1", "a@b.c", "A")
	require.NoError(t, err)

	_, err = iss.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = iss.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestParse_ExpiredToken(t *testing.T) {
	t.Parallel()

	iss := &Issuer{Secret: []byte("test-jwt-secret"), AccessTTL: -time.Minute, RefreshTTL: -time.Minute}

	token, _, err := iss.IssueAccess("u1", "a@b.c", "A")
	require.NoError(t, err)

	_, err = iss.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	token, _, err := iss.IssueAccess("u1", "a@b.c", "A")
	require.NoError(t, err)

	other := NewIssuer([]byte("another-secret"), 15*time.Minute, 24*time.Hour)
	_, err = other.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()
	_, err := iss.ParseAccess("not-a-valid-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
