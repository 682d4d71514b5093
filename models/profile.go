package models

import "time"

// Profile is the site owner's public profile. There is exactly one logical
// row; Slot carries a fixed value with a unique index so concurrent lazy
// creation cannot produce two rows.
type Profile struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	Slot                int    `gorm:"uniqueIndex;not null;default:1" json:"-"`
	Name                string `gorm:"size:256;not null" json:"name"`
	AboutMe             string `gorm:"type:text;not null" json:"aboutMe"`
	NetworkingStatement string `gorm:"type:text;not null" json:"networkingStatement"`
	ProfilePictureURL   string `gorm:"size:500;not null" json:"profilePictureUrl"`
	AppIconURL          string `gorm:"size:500" json:"appIconUrl,omitempty"`
	LinkedinURL         string `gorm:"size:500" json:"linkedinUrl,omitempty"`
	GithubURL           string `gorm:"size:500" json:"githubUrl,omitempty"`
	BuyMeACoffeeURL     string `gorm:"size:500" json:"buyMeACoffeeUrl,omitempty"`
	PortfolioURL        string `gorm:"size:500" json:"portfolioUrl,omitempty"`
	ResumeURL           string `gorm:"size:500" json:"resumeUrl,omitempty"`
	NotificationEmail   string `gorm:"size:256;not null" json:"notificationEmail"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
