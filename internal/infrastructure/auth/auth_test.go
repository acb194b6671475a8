package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tasknest/internal/infrastructure/auth"
	"tasknest/internal/utils/apierrors"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := auth.NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, h.Compare(hash, "correct horse battery staple"))
	assert.False(t, h.Compare(hash, "wrong password"))
}

func TestBcryptHasherLongPasswords(t *testing.T) {
	h := auth.NewBcryptHasher(bcrypt.MinCost)

	long := strings.Repeat("a", 100)
	hash, err := h.Hash(long)
	require.NoError(t, err)

	// Bytes past 72 are not part of the effective password.
	assert.True(t, h.Compare(hash, long))
	assert.True(t, h.Compare(hash, strings.Repeat("a", 72)))
	assert.False(t, h.Compare(hash, strings.Repeat("a", 71)))
}

func newManager(ttl time.Duration) *auth.TokenManager {
	return auth.NewTokenManager("test-secret-at-least-32-bytes-long", ttl, 2*ttl)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newManager(time.Hour)
	userID := uuid.New()

	pair, err := m.IssuePair(userID)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	got, err := m.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyRejectsRefreshAsAccess(t *testing.T) {
	m := newManager(time.Hour)
	pair, err := m.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = m.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newManager(time.Hour)

	for _, token := range []string{
		"",
		"not-a-jwt",
		"one.two",
		"one.two.three.four",
		"eyJhbGciOiJIUzI1NiJ9.e30.bad-signature",
	} {
		_, err := m.VerifyAccess(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", token)
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	m := newManager(time.Hour)
	pair, err := m.IssuePair(uuid.New())
	require.NoError(t, err)

	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = m.VerifyAccess(tampered)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newManager(time.Hour)
	other := auth.NewTokenManager("a-completely-different-secret-key", time.Hour, 2*time.Hour)

	pair, err := other.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = m.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newManager(-time.Minute)
	pair, err := m.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = m.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshRotatesPair(t *testing.T) {
	m := newManager(time.Hour)
	userID := uuid.New()

	pair, err := m.IssuePair(userID)
	require.NoError(t, err)

	next, err := m.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	got, err := m.VerifyAccess(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	// An access token cannot stand in for a refresh token.
	_, err = m.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthorizeOwner(t *testing.T) {
	userID := uuid.New()

	got, err := auth.AuthorizeOwner(userID, userID.String())
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	// Case differences canonicalize to the same id.
	got, err = auth.AuthorizeOwner(userID, strings.ToUpper(userID.String()))
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = auth.AuthorizeOwner(userID, uuid.NewString())
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.TypeForbidden))

	_, err = auth.AuthorizeOwner(userID, "not-a-uuid")
	require.Error(t, err)
	var apiErr *apierrors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_USER_ID_FORMAT", apiErr.Code)
}
