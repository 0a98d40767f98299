package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shelf is one physical shelf inside a System. Label is unique per system
// (e.g. "1A-1"); dimensions are millimetres.
type Shelf struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SystemID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_system_label"`
	Label    string    `gorm:"not null;uniqueIndex:idx_system_label"`
	LengthMM int       `gorm:"not null"`
	WidthMM  int       `gorm:"not null"`
	HeightMM int       `gorm:"not null"`
	// Ordinal is the shelf's position within its system
	Ordinal   int  `gorm:"not null;default:1"`
	IsDeleted bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	System *System `gorm:"foreignKey:SystemID"`
}

func (s *Shelf) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
