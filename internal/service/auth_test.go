package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	user, err := svc.Register(context.Background(), "admin", "admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), "admin", "admin@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.Error(t, err)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	assert.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), "", "admin@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(context.Background(), "admin", "", "s3cret")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(context.Background(), "admin", "admin@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}
