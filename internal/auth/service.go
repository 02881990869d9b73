package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/database"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

type AuthService struct {
	db                *gorm.DB
	userRepository    *UserRepository
	tokenManager      token.Manager
	allowPasswordHash bool
}

// NewAuthService builds the login service. allowPasswordHash disables the hash helper in production.
func NewAuthService(db *gorm.DB, userRepository *UserRepository, tokenManager token.Manager, allowPasswordHash bool) *AuthService {
	return &AuthService{
		db:                db,
		userRepository:    userRepository,
		tokenManager:      tokenManager,
		allowPasswordHash: allowPasswordHash,
	}
}

func (a *AuthService) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindByUsername(ctx, a.db, request.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Login failed - user not found", "username", request.Username)
			return nil, fmt.Errorf("login %s: %w", request.Username, ErrUserNotFound)
		}
		log.Error("Login failed - unexpected error", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		log.Warn("Login failed - invalid password", "username", request.Username)
		return nil, fmt.Errorf("login %s: %w", request.Username, ErrInvalidPassword)
	}

	accessToken, err := a.tokenManager.GenerateAccessToken(user.Username)
	if err != nil {
		log.Error("Access token generation failed", "error", err)
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	log.Info("Login succeeded", "username", user.Username)

	return &LoginResponse{AccessToken: accessToken}, nil
}

func (a *AuthService) HashPassword(ctx context.Context, password string) (string, error) {
	if !a.allowPasswordHash {
		logger.FromContext(ctx).Warn("Password hash requested in production")
		return "", fmt.Errorf("hash password: %w", ErrPasswordHashUnavailable)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// EnsureAdmin creates the operator account when it does not exist yet.
// Returns true when a user was created.
func (a *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	log := logger.FromContext(ctx)
	if username == "" || password == "" {
		return false, nil
	}

	created := false
	err := database.WithTransaction(ctx, a.db, func(tx *gorm.DB) error {
		exists, err := a.userRepository.IsExist(ctx, tx, username)
		if err != nil {
			return fmt.Errorf("check user existence: %w", err)
		}
		if exists {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		if err := a.userRepository.Create(ctx, tx, model.NewUser(username, string(hash))); err != nil {
			if database.IsUniqueViolation(err) {
				return nil
			}
			return fmt.Errorf("create admin user: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		log.Error("Admin seed failed", "error", err)
		return false, err
	}

	if created {
		log.Info("Admin user created", "username", username)
	}
	return created, nil
}
