package models

import (
	"strings"
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type User struct {
	ID           string    `gorm:"primaryKey"              json:"id"`
	Email        string    `gorm:"unique;not null"         json:"email"`
	Name         string    `gorm:"not null"                json:"name"`
	PasswordHash string    `gorm:"not null"                json:"-"`
	IsActive     bool      `gorm:"default:true"            json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Task struct {
	ID          string     `gorm:"primaryKey"              json:"id"`
	Title       string     `gorm:"not null"                json:"title"`
	Description string     `json:"description"`
	Completed   bool       `gorm:"default:false"           json:"completed"`
	Priority    string     `gorm:"not null;default:medium" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	UserID      string     `gorm:"index;not null"          json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NormalizePriority maps arbitrary input onto one of the known priority
// values. Unknown or empty input falls back to medium.
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}
