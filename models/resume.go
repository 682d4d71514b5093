package models

import "time"

// Resume is one uploaded resume document version. File metadata is written
// once at creation and never changes; at most one row has IsCurrent set.
type Resume struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FileName      string    `gorm:"size:256;not null" json:"fileName"`
	FileURL       string    `gorm:"size:500;not null" json:"fileUrl"`
	FileSize      int64     `gorm:"not null" json:"fileSize"` // bytes
	FileType      string    `gorm:"size:50;not null" json:"fileType"`
	UploadID      string    `gorm:"column:upload_id;size:100;not null;index" json:"uploadId"` // external file handle
	IsCurrent     bool      `gorm:"default:false;not null;index" json:"isCurrent"`
	DownloadCount int       `gorm:"default:0;not null" json:"downloadCount"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
}
