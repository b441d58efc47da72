package service

import (
	"context"

	"asistente-normativo/internal/dto"
	"asistente-normativo/pkg/auth"
	"asistente-normativo/pkg/config"

	"go.uber.org/zap"
)

// AdminService authenticates the single administrative account that guards
// document management.
type AdminService struct {
	config     *config.AdminConfig
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAdminService(cfg *config.AdminConfig, jwtManager *auth.JWTManager, logger *zap.Logger) *AdminService {
	if cfg.PasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH is not set, admin login is disabled")
	}

	return &AdminService{
		config:     cfg,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *AdminService) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if s.config.PasswordHash == "" || req.Username != s.config.Username {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(req.Password, s.config.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateToken(req.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin login", zap.String("username", req.Username))

	return &dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.GetTokenDuration().Seconds()),
	}, nil
}
