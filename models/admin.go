package models

import "time"

// Admin is a privileged account allowed to moderate guests and edit
// profile/resume state. In practice there is one.
type Admin struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:255;not null;unique"`
	HashedPassword []byte `gorm:"not null"`
}
