package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// System is a named storage area (e.g. "1A"). Shelves belong to exactly one
// system; soft-deleting a system cascades to its shelves and their items.
type System struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Notes     *string
	IsDeleted bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *System) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
