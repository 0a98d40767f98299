package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User stores system users with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	// MaxClearanceLevel caps which items the user may see or move; nil = unlimited
	MaxClearanceLevel *int
	// No default tag: gorm would skip a zero-valued Active on insert and the
	// row would come back active. Callers set the flag explicitly.
	Active bool `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user bypasses clearance checks.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
