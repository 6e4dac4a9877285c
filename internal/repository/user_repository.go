package repository

import (
	"github.com/kmorozova/answerboard/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.RegisteredUser) error
	FindByEmail(email string) (*model.RegisteredUser, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.RegisteredUser) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmail(email string) (*model.RegisteredUser, error) {
	var user model.RegisteredUser
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
