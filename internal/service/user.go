package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/repo"
)

type UserService struct {
	Repo *repo.GormRepo
}

type UserUpdate struct {
	Name  *string
	Email *string
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UserUpdate) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update")

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("name is required: %w", ErrValidation)
		}
		user.Name = *in.Name
	}
	if in.Email != nil {
		if !strings.Contains(*in.Email, "@") {
			return nil, fmt.Errorf("email is malformed: %w", ErrValidation)
		}
		taken, err := s.Repo.EmailTaken(ctx, *in.Email, id)
		if err != nil {
			l.Error("user_update_failed", "status", 500, "error", err)
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		user.Email = *in.Email
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("user_update_failed", "status", 500, "error", err)
		return nil, err
	}
	return user, nil
}

// Delete removes a user row. Administrative; normal flows deactivate
// instead of deleting.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
