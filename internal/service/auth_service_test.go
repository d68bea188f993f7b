package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarlift/escalation-service/internal/auth"
	"github.com/scholarlift/escalation-service/internal/config"
	"github.com/scholarlift/escalation-service/internal/domain"
	apperrors "github.com/scholarlift/escalation-service/pkg/util/errorutil"
)

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	user := activeUser("user-1", "Amina Said", "KE")
	user.Email = "amina@example.org"
	user.PasswordHash = hash

	svc := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5}, newStubUserRepo(user))

	loggedIn, token, expiresAt, err := svc.Login(context.Background(), "amina@example.org", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", loggedIn.ID)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "KE", claims.Region)
	assert.Equal(t, domain.UserRoleAmbassador, claims.Role)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	user := activeUser("user-1", "Amina Said", "KE")
	user.Email = "amina@example.org"
	user.PasswordHash = hash

	svc := NewAuthService(config.AuthConfig{JWTSecret: "test-secret"}, newStubUserRepo(user))

	_, _, _, err = svc.Login(context.Background(), "amina@example.org", "wrong")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, _, _, err = svc.Login(context.Background(), "ghost@example.org", "s3cret")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}
