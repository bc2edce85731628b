package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskforge/taskforge/internal/hash"
	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/repo"
	"github.com/taskforge/taskforge/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Issuer *tokens.Issuer
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if name == "" || email == "" || password == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("name, email and password are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		if errors.Is(err, hash.ErrPasswordTooLong) {
			l.Warn("register_failed", "status", 400, "reason", "password too long")
			return nil, err
		}
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		IsActive:     true,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_failed", "status", 409, "reason", "email already registered")
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	return s.issueFor(ctx, &user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	// Unknown email and wrong password produce the same error so the
	// response never reveals whether an account exists.
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	return s.issueFor(ctx, user)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated or invalidated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Issuer.ParseRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return "", time.Time{}, err
	}

	access, exp, err := s.Issuer.IssueAccess(claims.Subject, claims.Email, claims.Name)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return "", time.Time{}, err
	}
	return access, exp, nil
}

func (s *AuthService) issueFor(ctx context.Context, user *models.User) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue")

	access, accessExp, err := s.Issuer.IssueAccess(user.ID, user.Email, user.Name)
	if err != nil {
		l.Error("issue_failed", "status", 500, "error", err)
		return nil, err
	}
	refresh, refreshExp, err := s.Issuer.IssueRefresh(user.ID, user.Email, user.Name)
	if err != nil {
		l.Error("issue_failed", "status", 500, "error", err)
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
