package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/connectapi/connect-api/internal/logger"
	"github.com/connectapi/connect-api/internal/models"
	"github.com/connectapi/connect-api/internal/repositories"
)

// Error variables
var (
	ErrInvalidInput       = errors.New("invalid signup details")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, username, email, password string) (*models.UserDB, error)
}

// TokenGenerator defines an interface for issuing auth tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
}

// Notifier accepts a fire-and-forget welcome notification. Implementations
// must not block on delivery; the returned error is advisory and the caller
// ignores it.
type Notifier interface {
	NotifyRegistered(ctx context.Context, user *models.UserDB) error
}

// RegistrationResult is the successful payload of Register.
type RegistrationResult struct {
	User  *models.UserDB
	Token string
}

// AuthService handles registration and login.
type AuthService struct {
	reader   UserReader
	writer   UserWriter
	jwt      TokenGenerator
	notifier Notifier
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenGenerator, notifier Notifier) *AuthService {
	return &AuthService{
		reader:   reader,
		writer:   writer,
		jwt:      jwt,
		notifier: notifier,
	}
}

// Register creates a new user, issues an auth token for it and dispatches a
// welcome notification. The notification outcome never affects the result.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*RegistrationResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	user, err := svc.writer.Create(ctx, username, email, password)
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			// Lost the race to a concurrent insert with the same
			// username or email.
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to create user", "err", err)
		return nil, err
	}

	token, err := svc.jwt.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, err
	}

	if err := svc.notifier.NotifyRegistered(ctx, user); err != nil {
		logger.Log.Warnw("welcome notification dispatch failed", "username", user.Username, "err", err)
	}

	return &RegistrationResult{User: user, Token: token}, nil
}

// Login authenticates a user and returns an auth token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.reader.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrUserDoesNotExist
	}

	if !repositories.VerifyPassword(user, password) {
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// GetUser returns the user owning the given id.
func (svc *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user by id", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user, nil
}
