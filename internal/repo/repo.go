package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrNotFound         = gorm.ErrRecordNotFound
)

type GormRepo struct {
	DB *gorm.DB
}
