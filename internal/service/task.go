package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskforge/taskforge/internal/logging"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/repo"
	"github.com/taskforge/taskforge/internal/util"
)

const descriptionMax = 1000

type TaskService struct {
	Repo     *repo.GormRepo
	TitleMax int
}

type TaskCreate struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *string
	DueDate     *string
}

type TaskListQuery struct {
	Status   string
	Priority string
	Search   string
	Limit    int
	Offset   int
}

func (s *TaskService) titleMax() int {
	if s.TitleMax <= 0 {
		return 255
	}
	return s.TitleMax
}

// ParseDueDate accepts RFC 3339 timestamps or plain dates. Anything
// else is treated as absent rather than rejected.
func ParseDueDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in TaskCreate) (*models.Task, error) {
	l := logging.FromContext(ctx).With("svc", "task.create")

	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if len(in.Title) > s.titleMax() {
		return nil, fmt.Errorf("title exceeds %d characters: %w", s.titleMax(), ErrValidation)
	}
	if len(in.Description) > descriptionMax {
		return nil, fmt.Errorf("description exceeds %d characters: %w", descriptionMax, ErrValidation)
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		Priority:    models.NormalizePriority(in.Priority),
		DueDate:     ParseDueDate(in.DueDate),
		UserID:      ownerID,
	}

	if err := s.Repo.CreateTask(ctx, &task); err != nil {
		l.Error("task_create_failed", "status", 500, "error", err)
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, q TaskListQuery) ([]models.Task, error) {
	f := repo.TaskFilter{
		Priority: q.Priority,
		Search:   q.Search,
		Limit:    util.ClampLimit(q.Limit),
		Offset:   util.ClampOffset(q.Offset),
	}

	switch strings.ToLower(q.Status) {
	case "completed":
		done := true
		f.Completed = &done
	case "pending", "active":
		done := false
		f.Completed = &done
	}

	return s.Repo.ListTasks(ctx, ownerID, f)
}

func (s *TaskService) GetByID(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	task, err := s.Repo.GetTask(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, in TaskUpdate) (*models.Task, error) {
	l := logging.FromContext(ctx).With("svc", "task.update")

	task, err := s.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("title is required: %w", ErrValidation)
		}
		if len(*in.Title) > s.titleMax() {
			return nil, fmt.Errorf("title exceeds %d characters: %w", s.titleMax(), ErrValidation)
		}
		task.Title = *in.Title
	}
	if in.Description != nil {
		if len(*in.Description) > descriptionMax {
			return nil, fmt.Errorf("description exceeds %d characters: %w", descriptionMax, ErrValidation)
		}
		task.Description = *in.Description
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	if in.Priority != nil {
		task.Priority = models.NormalizePriority(*in.Priority)
	}
	if in.DueDate != nil {
		if due := ParseDueDate(*in.DueDate); due != nil {
			task.DueDate = due
		}
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.Repo.SaveTask(ctx, task); err != nil {
		l.Error("task_update_failed", "status", 500, "error", err)
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := s.Repo.DeleteTask(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return err
	}
	return nil
}

// ToggleCompletion flips the completion flag, or sets it explicitly
// when target is non-nil.
func (s *TaskService) ToggleCompletion(ctx context.Context, ownerID, taskID string, target *bool) (*models.Task, error) {
	l := logging.FromContext(ctx).With("svc", "task.toggle")

	task, err := s.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if target != nil {
		task.Completed = *target
	} else {
		task.Completed = !task.Completed
	}

	task.UpdatedAt = time.Now().UTC()
	if err := s.Repo.SaveTask(ctx, task); err != nil {
		l.Error("task_toggle_failed", "status", 500, "error", err)
		return nil, err
	}
	return task, nil
}
