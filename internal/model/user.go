package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole distinguishes the two account kinds the application knows about.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	return r == RoleTeacher || r == RoleStudent
}

// RegisteredUser is an account created through /register. Registration is a
// uniqueness check on email, not a credential system: login never verifies
// the stored password hash against the one supplied.
type RegisteredUser struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex"`
	FirstName    string         `json:"first_name" gorm:"not null"`
	LastName     string         `json:"last_name" gorm:"not null"`
	MiddleName   *string        `json:"middle_name,omitempty"`
	Role         UserRole       `json:"role" gorm:"not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
