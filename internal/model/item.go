package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is one tracked stock line. Quantity is a cached aggregate of the
// movement ledger — it is only ever changed inside the same transaction that
// writes the movement rows causing the change (see MovementRepository).
type Item struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU  string    `gorm:"uniqueIndex;not null"`
	Name string    `gorm:"index;not null"`
	Unit string    `gorm:"not null;default:'units'"`
	// ClearanceLevel is an access-policy tag 1..4; a user's max clearance must
	// dominate it (admins bypass)
	ClearanceLevel int       `gorm:"not null;default:1"`
	ShelfID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity       int       `gorm:"not null;default:0"`
	Tag            *string
	Note           *string
	AddedBy        string `gorm:"not null;default:'admin'"`
	IsDeleted      bool   `gorm:"not null;default:false;index"`
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Shelf *Shelf `gorm:"foreignKey:ShelfID"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
