// Package service implements account registration, login and the
// one-time admin bootstrap.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/auth"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/user"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/userstore"
)

var (
	ErrUserAlreadyRegistered = errors.New("username already taken")
	ErrInvalidCredentials    = errors.New("invalid username or password")
)

// Store is the narrow data-access interface for the account service.
// Defined here to keep the service decoupled from userstore
// implementation details.
type Store interface {
	UserExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *user.User) error
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

// Service defines the account business logic.
type Service interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*user.Profile, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

type accountService struct {
	store    Store
	tokens   *auth.TokenManager
	validate *validator.Validate
	logger   *zap.Logger

	// adminBootstrapped flips to true after the first successful
	// check-or-create of the admin account and never resets for the
	// lifetime of the process.
	adminBootstrapped atomic.Bool
}

// NewService creates a new account service.
func NewService(store Store, tokens *auth.TokenManager, logger *zap.Logger) Service {
	return &accountService{
		store:    store,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Register creates a new account with the user role and returns a
// session token for it.
func (s *accountService) Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid registration request")
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	exists, err := s.store.UserExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ConflictError(ErrUserAlreadyRegistered, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := user.New(username, strings.TrimSpace(req.Email), string(hash), auth.RoleUser)
	if err := s.store.CreateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.String("username", username))
	return s.respond(usr)
}

// Login verifies credentials and returns a fresh session token. The
// response never distinguishes a bad username from a bad password.
func (s *accountService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid login request")
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	usr, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid username or password")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "invalid username or password")
	}

	return s.respond(usr)
}

// Me returns the profile of the authenticated user.
func (s *accountService) Me(ctx context.Context, userID int64) (*user.Profile, error) {
	usr, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.ResourceNotFoundError(err, "user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return usr.ToProfile(), nil
}

// EnsureAdmin performs the one-time admin check-or-create. Repeat
// calls after a success are no-ops; a failed attempt leaves the flag
// unset so the next call retries.
func (s *accountService) EnsureAdmin(ctx context.Context, username, password string) error {
	if s.adminBootstrapped.Load() {
		return nil
	}
	if username == "" || password == "" {
		return errors.New("admin username and password are required")
	}

	username = strings.ToLower(strings.TrimSpace(username))

	exists, err := s.store.UserExists(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin existence: %w", err)
	}
	if !exists {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		if err := s.store.CreateUser(ctx, user.New(username, "", string(hash), auth.RoleAdmin)); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		s.logger.Info("admin account created", zap.String("username", username))
	}

	s.adminBootstrapped.Store(true)
	return nil
}

func (s *accountService) respond(usr *user.User) (*user.AuthResponse, error) {
	token, err := s.tokens.Issue(usr.ID, usr.Username, usr.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &user.AuthResponse{Token: token, User: usr.ToProfile()}, nil
}
