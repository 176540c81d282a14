package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/auth"
)

func TestAuthServiceSignIn(t *testing.T) {
	db := testDB(t)
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Name: "Maria", Email: "maria@sklad.local", Password: hash, Role: "MANAGER",
	}).Error)

	svc := NewAuthService(db)

	user, token, err := svc.SignIn(context.Background(), SignInInput{
		Email: "maria@sklad.local", Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "MANAGER", user.Role)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "MANAGER", claims.Role)

	_, _, err = svc.SignIn(context.Background(), SignInInput{
		Email: "maria@sklad.local", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(context.Background(), SignInInput{
		Email: "nobody@sklad.local", Password: "s3cret",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
