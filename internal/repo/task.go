package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/taskforge/taskforge/internal/models"
)

// TaskFilter narrows a task listing. Zero values mean "no filter".
type TaskFilter struct {
	Completed *bool
	Priority  string
	Search    string
	Limit     int
	Offset    int
}

func (f TaskFilter) active() bool {
	return f.Completed != nil || f.Priority != "" || f.Search != ""
}

func (r *GormRepo) CreateTask(ctx context.Context, task *models.Task) error {
	return r.DB.WithContext(ctx).Create(task).Error
}

func (r *GormRepo) GetTask(ctx context.Context, id, userID string) (*models.Task, error) {
	var task models.Task
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormRepo) ListTasks(ctx context.Context, userID string, f TaskFilter) ([]models.Task, error) {
	q := r.DB.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)

	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		q = q.Where("title LIKE ? OR description LIKE ?", "%"+f.Search+"%", "%"+f.Search+"%")
	}

	// Filtered listings come back newest first; plain listings keep
	// insertion order.
	if f.active() {
		q = q.Order("created_at DESC")
	} else {
		q = q.Order("created_at ASC")
	}

	items := make([]models.Task, 0, f.Limit)
	if err := q.Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveTask(ctx context.Context, task *models.Task) error {
	return r.DB.WithContext(ctx).Save(task).Error
}

func (r *GormRepo) DeleteTask(ctx context.Context, id, userID string) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
