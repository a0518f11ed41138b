package services_test

import (
	"context"
	"testing"

	"limpay/internal/core/domain"
	"limpay/internal/core/services"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	e := newEnv(t)
	e.register(t, "1234567")

	profile, err := e.users.GetProfile(context.Background(), "1234567")
	require.NoError(t, err)
	require.Equal(t, "1234567@students.limpay.edu", profile.Email)

	_, err = e.users.GetProfile(context.Background(), "7654321")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "1234567")
	e.register(t, "2345678")

	changed, err := e.users.UpdateProfile(ctx, "1234567", &services.UpdateProfileInput{})
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = e.users.UpdateProfile(ctx, "1234567", &services.UpdateProfileInput{
		Name:     strPtr(" Ada "),
		Faculty:  strPtr("Physics"),
		Password: strPtr("brand-new"),
	})
	require.NoError(t, err)
	require.True(t, changed)

	profile, err := e.users.GetProfile(ctx, "1234567")
	require.NoError(t, err)
	require.Equal(t, "Ada", profile.Name)
	require.Equal(t, "Physics", profile.Faculty)

	_, err = e.auth.Login(ctx, &services.LoginInput{ID: "1234567", Password: "brand-new"})
	require.NoError(t, err)
}

func TestUpdateProfileRejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "1234567")
	e.register(t, "2345678")

	_, err := e.users.UpdateProfile(ctx, "1234567", &services.UpdateProfileInput{Name: strPtr("  ")})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.EqualError(t, err, "Name cannot be empty")

	_, err = e.users.UpdateProfile(ctx, "1234567", &services.UpdateProfileInput{Email: strPtr("nope")})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.users.UpdateProfile(ctx, "1234567", &services.UpdateProfileInput{Password: strPtr("123")})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.users.UpdateProfile(ctx, "1234567", &services.UpdateProfileInput{Email: strPtr("2345678@students.limpay.edu")})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Keeping one's own email is not a conflict
	changed, err := e.users.UpdateProfile(ctx, "1234567", &services.UpdateProfileInput{Email: strPtr("1234567@students.limpay.edu")})
	require.NoError(t, err)
	require.True(t, changed)
}
