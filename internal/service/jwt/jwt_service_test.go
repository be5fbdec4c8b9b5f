package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	service, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)

	identity := domain.Identity{
		Email:    "kam@example.com",
		Role:     domain.RoleKam,
		KamID:    "KAM1",
		ClientID: "",
	}

	token, expiresAt, err := service.Issue(identity)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	verified, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, verified)
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	issuer, err := NewService("real-secret", time.Hour)
	require.NoError(t, err)
	verifier, err := NewService("other-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Issue(domain.Identity{Email: "x@example.com", Role: domain.RoleClient, ClientID: "C1"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	service, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)
	service.ttl = -time.Minute

	token, _, err := service.Issue(domain.Identity{Email: "x@example.com", Role: domain.RoleClient, ClientID: "C1"})
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	service, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = service.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	service, err := NewService("test-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := service.Issue(domain.Identity{Email: "x@example.com", Role: domain.Role("board")})
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService("", time.Hour)
	assert.Error(t, err)
}
