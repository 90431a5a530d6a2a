package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldready/locate-service/internal/domain"
)

func testAccount() *domain.ServiceAccount {
	return &domain.ServiceAccount{
		ID:             "acct-1",
		OrganizationID: "org-1",
		Name:           "dispatch-console",
		Role:           domain.RoleDispatcher,
		Active:         true,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	tokenStr, expiresAt, err := tm.GenerateToken(testAccount())
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(tokenStr)
	assert.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "org-1", claims.OrganizationID)
	assert.Equal(t, domain.RoleDispatcher, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 30)
	other := NewTokenManager("secret-b", 30)

	tokenStr, _, err := tm.GenerateToken(testAccount())
	assert.NoError(t, err)

	_, err = other.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashSecret("correct horse battery staple", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CompareSecret(hash, "correct horse battery staple"))
	assert.Error(t, CompareSecret(hash, "wrong secret"))
}
