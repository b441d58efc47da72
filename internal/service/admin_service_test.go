package service

import (
	"context"
	"testing"
	"time"

	"asistente-normativo/internal/dto"
	"asistente-normativo/pkg/auth"
	"asistente-normativo/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	hash, err := auth.HashPassword("clave-segura")
	require.NoError(t, err)

	svc := NewAdminService(&config.AdminConfig{
		Username:     "admin",
		PasswordHash: hash,
	}, jwtManager, zap.NewNop())

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "clave-segura"})

		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := jwtManager.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "clave-errada"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username is rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, &dto.LoginRequest{Username: "otro", Password: "clave-segura"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unset hash disables login", func(t *testing.T) {
		disabled := NewAdminService(&config.AdminConfig{Username: "admin"}, jwtManager, zap.NewNop())

		_, err := disabled.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "clave-segura"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
