package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"wanderlist/internal/crypto"
	"wanderlist/internal/models"
	"wanderlist/internal/repository"
	"wanderlist/internal/token"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials covers unknown email, wrong password and banned
	// accounts alike. The distinction must never reach the client.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService interface {
	Register(name, username, email, password string) (*models.User, error)
	// Login verifies credentials and returns a bearer token plus the user
	// record it was issued for.
	Login(email, password string) (string, *models.User, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *token.Service
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *token.Service, logger *zap.Logger) AuthService {
	return &authService{repo: repo, tokens: tokens, logger: logger}
}

func (s *authService) Register(name, username, email, password string) (*models.User, error) {
	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}

	if err := s.repo.CreateUser(user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *authService) Login(email, password string) (string, *models.User, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Corrupt digest in the store; to the client this is just a failed login.
		s.logger.Error("Corrupt password digest", zap.Int64("user_id", user.ID), zap.Error(err))
		return "", nil, ErrInvalidCredentials
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	if user.Status == models.StatusBanned {
		s.logger.Info("Banned user attempted login", zap.Int64("user_id", user.ID))
		return "", nil, ErrInvalidCredentials
	}

	tokenString, _, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.Int64("user_id", user.ID))
	return tokenString, user, nil
}
