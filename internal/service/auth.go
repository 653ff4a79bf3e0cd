package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"finledger/internal/models"
	"finledger/internal/repository"
	"finledger/internal/token"
)

var ( // Define custom errors
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two are intentionally indistinguishable to the caller so login
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Work factor for bcrypt password hashing. The salt is generated per call
// and embedded in the hash.
const bcryptCost = 10

type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	// Login verifies the credentials and returns the user together with a
	// signed session token and its expiry.
	Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *token.Manager
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *token.Manager, logger *zap.Logger) AuthService {
	return &authService{users: users, tokens: tokens, logger: logger}
}

func (s *authService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	passwordHash, err := hashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("email", user.Email))
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, "", time.Time{}, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !verifyPassword(user.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	tokenString, expirationTime, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return nil, "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("email", user.Email))
	return user, tokenString, expirationTime, nil
}

// NormalizeEmail lower-cases and trims an email so lookups and the unique
// index see one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword produces a salted bcrypt digest. Hashing the same password
// twice yields different strings; both verify.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword compares a plaintext password against a stored hash in
// constant time. A malformed hash verifies as false, never as an error.
func verifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
