package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

// TokenService issues artist access tokens and resolves them back to ids.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue access: %w", err)
	}

	return access, nil
}

func (s *TokenService) GetUserID(token string) (uuid.UUID, error) {
	userID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		s.logger.Debug("Token service: rejected access token", "error", err)
		return uuid.Nil, err
	}

	return userID, nil
}
