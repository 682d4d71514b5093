package models

import "time"

// Guest is a single visitor submission from the public guestbook form.
// Rows are created by visitors and only ever hidden/unhidden or deleted
// by the admin; the submitted fields are never mutated afterwards.
type Guest struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:256;not null" json:"name"`
	Phone           string `gorm:"size:20" json:"phone,omitempty"`
	Email           string `gorm:"size:256;not null;index" json:"email"`
	// Note is private, shown only on the admin dashboard.
	Note            string    `gorm:"type:text" json:"note,omitempty"`
	PublicAction    string    `gorm:"size:100;not null" json:"publicAction"`
	Role            string    `gorm:"size:50;not null;index" json:"role"`
	DisplayNamePref string    `gorm:"size:20;not null" json:"displayNamePref"`
	ProfileImageURL string    `gorm:"size:500" json:"profileImageUrl,omitempty"`
	Hidden          bool      `gorm:"default:false;not null;index" json:"hidden"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
}
