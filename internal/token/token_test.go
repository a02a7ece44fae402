package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndClaims(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	tokenString, err := svc.Issue("alice", []string{"ROLE_CITIZEN", "ROLE_ADMIN"})
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	identity, err := svc.Claims(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, []string{"ROLE_CITIZEN", "ROLE_ADMIN"}, identity.Roles)
}

func TestValidate(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	tokenString, err := svc.Issue("alice", []string{"ROLE_CITIZEN"})
	require.NoError(t, err)

	assert.True(t, svc.Validate(tokenString))
	assert.False(t, svc.Validate("not-a-token"))
	assert.False(t, svc.Validate(""))
}

func TestWrongSecretRejected(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	other := NewService("different-secret", time.Hour)

	tokenString, err := svc.Issue("alice", []string{"ROLE_CITIZEN"})
	require.NoError(t, err)

	assert.False(t, other.Validate(tokenString))

	_, err = other.Claims(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	tokenString, err := svc.Issue("alice", []string{"ROLE_CITIZEN"})
	require.NoError(t, err)

	assert.False(t, svc.Validate(tokenString))
}

func TestEmptySecretStillIssues(t *testing.T) {
	// An ephemeral key is generated; tokens verify within the same service
	svc := NewService("", time.Hour)

	tokenString, err := svc.Issue("alice", []string{"ROLE_CITIZEN"})
	require.NoError(t, err)
	assert.True(t, svc.Validate(tokenString))

	// But not across differently-keyed instances
	other := NewService("", time.Hour)
	assert.False(t, other.Validate(tokenString))
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	tokenString, err := svc.Issue("alice", []string{"ROLE_CITIZEN"})
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"
	assert.False(t, svc.Validate(tampered))
}
