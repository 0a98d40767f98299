package model

import "time"

// Setting is the singleton configuration row (id = 1). The notifier worker
// re-reads it each scan so changes apply without a restart.
type Setting struct {
	ID                  int    `gorm:"primaryKey"`
	AdminEmail          string `gorm:"not null"`
	ReminderFreqMinutes int    `gorm:"not null;default:180"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
