package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/poker-club/models"
	"github.com/Dosada05/poker-club/repositories"
	"github.com/Dosada05/poker-club/utils"
)

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserService управляет учётными записями клуба. Все операции только для администраторов.
type UserService interface {
	Create(ctx context.Context, actor models.Actor, input CreateUserInput) (*models.Account, error)
	List(ctx context.Context, actor models.Actor) ([]*models.Account, error)
	SetSuspended(ctx context.Context, actor models.Actor, username string, suspended bool) (*models.Account, error)
	Delete(ctx context.Context, actor models.Actor, username string) error
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{userRepo: userRepo, logger: logger.With(slog.String("component", "users"))}
}

func (s *userService) Create(ctx context.Context, actor models.Actor, input CreateUserInput) (*models.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrUsernameRequired
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	account := &models.Account{Username: username, PasswordHash: hash, IsAdmin: input.IsAdmin}
	if err := s.userRepo.Create(ctx, account); err != nil {
		return nil, mapRepositoryError(err, "create user")
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("username", username),
		slog.Bool("is_admin", input.IsAdmin),
		slog.String("actor", actor.Username),
	)
	return sanitize(account), nil
}

func (s *userService) List(ctx context.Context, actor models.Actor) ([]*models.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	accounts, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "list users")
	}
	for i := range accounts {
		accounts[i] = sanitize(accounts[i])
	}
	return accounts, nil
}

func (s *userService) SetSuspended(ctx context.Context, actor models.Actor, username string, suspended bool) (*models.Account, error) {
	if err := s.checkTarget(actor, username); err != nil {
		return nil, err
	}
	account, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapRepositoryError(err, "get user")
	}
	account.Suspended = suspended
	if err := s.userRepo.Update(ctx, account); err != nil {
		return nil, mapRepositoryError(err, "update user")
	}

	s.logger.InfoContext(ctx, "user suspension changed",
		slog.String("username", username),
		slog.Bool("suspended", suspended),
		slog.String("actor", actor.Username),
	)
	return sanitize(account), nil
}

func (s *userService) Delete(ctx context.Context, actor models.Actor, username string) error {
	if err := s.checkTarget(actor, username); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, username); err != nil {
		return mapRepositoryError(err, "delete user")
	}
	s.logger.InfoContext(ctx, "user deleted", slog.String("username", username), slog.String("actor", actor.Username))
	return nil
}

func (s *userService) checkTarget(actor models.Actor, username string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if username == actor.Username {
		return ErrSelfModification
	}
	return nil
}

func sanitize(a *models.Account) *models.Account {
	c := *a
	c.PasswordHash = ""
	return &c
}
