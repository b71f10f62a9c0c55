package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/utils"
)

type AuthService interface {
	Authenticate(ctx context.Context, credentials models.Credentials) (models.Actor, error)
}

type authService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		userRepo: userRepo,
		logger:   logger.With(slog.String("component", "auth")),
	}
}

func (s *authService) Authenticate(ctx context.Context, credentials models.Credentials) (models.Actor, error) {
	username := strings.TrimSpace(credentials.Username)
	if username == "" || credentials.Password == "" {
		return models.Actor{}, ErrUsernameRequired
	}

	account, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.Actor{}, ErrInvalidCredentials
		}
		return models.Actor{}, fmt.Errorf("%w: find user: %w", ErrPersistence, err)
	}

	if !utils.CheckPasswordHash(credentials.Password, account.PasswordHash) {
		s.logger.InfoContext(ctx, "login rejected", slog.String("username", username))
		return models.Actor{}, ErrInvalidCredentials
	}
	if account.Suspended {
		return models.Actor{}, ErrAccountSuspended
	}

	// Старый sha256-хеш заменяем на bcrypt при первом успешном входе.
	if utils.IsLegacyHash(account.PasswordHash) {
		if hash, err := utils.HashPassword(credentials.Password); err == nil {
			account.PasswordHash = hash
			if err := s.userRepo.Update(ctx, account); err != nil {
				s.logger.WarnContext(ctx, "failed to upgrade password hash", slog.String("username", username), slog.Any("error", err))
			}
		}
	}

	return models.Actor{Username: account.Username, IsAdmin: account.IsAdmin}, nil
}
