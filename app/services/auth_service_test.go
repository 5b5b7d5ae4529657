package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/pkg/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	user, err := svc.Register("Buyer@Example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "buyer@example.com", user.Email, "email must be lowercased")
	require.False(t, user.IsAdmin, "new accounts must not be admins")
	require.NotEqual(t, "secret123", user.Password, "password must be hashed")

	token, err := svc.Login("buyer@example.com", "secret123")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.False(t, claims.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	_, err := svc.Register("dup@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register("dup@example.com", "other456")
	require.ErrorIs(t, err, services.ErrEmailTaken)

	// Case only differs — still the same account.
	_, err = svc.Register("DUP@example.com", "other456")
	require.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	_, err := svc.Register("user@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Login("user@example.com", "wrongpass")
	require.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login("ghost@example.com", "secret123")
	require.ErrorIs(t, err, services.ErrInvalidCredentials,
		"unknown email must yield the same error as a wrong password")
}

func TestGrantAdmin(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	_, err := svc.Register("staff@example.com", "secret123")
	require.NoError(t, err)

	promoted, err := svc.GrantAdmin("staff@example.com")
	require.NoError(t, err)
	require.True(t, promoted.IsAdmin)

	token, err := svc.Login("staff@example.com", "secret123")
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.True(t, claims.IsAdmin, "admin claim must appear in fresh tokens")

	_, err = svc.GrantAdmin("ghost@example.com")
	require.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestMe(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	user, err := svc.Register("me@example.com", "secret123")
	require.NoError(t, err)

	got, err := svc.Me(user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)

	_, err = svc.Me(99999)
	require.ErrorIs(t, err, services.ErrUserNotFound)
}
