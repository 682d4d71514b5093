package store

import (
	"errors"
	"fmt"
	"strings"

	"guestlist/models"

	"gorm.io/gorm"
)

// ResumeInput carries the metadata returned by the upload backend for a new
// resume version.
type ResumeInput struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
	UploadID string `json:"uploadId"`
}

// ResumeStore manages resume versions while keeping the invariant that at
// most one row has is_current set. Every transition of that flag runs as a
// clear-all-then-set-one step inside one transaction.
type ResumeStore struct {
	db *gorm.DB
}

func NewResumeStore(db *gorm.DB) *ResumeStore {
	return &ResumeStore{db: db}
}

// Create inserts a new version which always becomes the current one.
func (s *ResumeStore) Create(in ResumeInput) (*models.Resume, error) {
	if err := validateResume(&in); err != nil {
		return nil, err
	}
	r := models.Resume{
		FileName:  in.FileName,
		FileURL:   in.FileURL,
		FileSize:  in.FileSize,
		FileType:  in.FileType,
		UploadID:  in.UploadID,
		IsCurrent: true,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Resume{}).Where("is_current = ?", true).
			UpdateColumn("is_current", false).Error; err != nil {
			return err
		}
		return tx.Create(&r).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns all versions, newest first.
func (s *ResumeStore) List() ([]models.Resume, error) {
	var resumes []models.Resume
	if err := s.db.Order("created_at DESC, id DESC").Find(&resumes).Error; err != nil {
		return nil, err
	}
	return resumes, nil
}

// GetCurrent returns the version flagged current, or ErrNotFound when no
// resume has been uploaded yet.
func (s *ResumeStore) GetCurrent() (*models.Resume, error) {
	var r models.Resume
	if err := s.db.Where("is_current = ?", true).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// SetCurrent promotes the given version, demoting whichever was current.
// A missing id aborts the transaction so the previous current survives.
func (s *ResumeStore) SetCurrent(id uint) (*models.Resume, error) {
	var r models.Resume
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.Resume{}).Where("is_current = ?", true).
			UpdateColumn("is_current", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Resume{}).Where("id = ?", id).
			UpdateColumn("is_current", true).Error
	})
	if err != nil {
		return nil, err
	}
	r.IsCurrent = true
	return &r, nil
}

// Delete removes a non-current version. Deleting the current version is a
// conflict; another version must be promoted first.
func (s *ResumeStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var r models.Resume
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if r.IsCurrent {
			return fmt.Errorf("cannot delete the current resume: %w", ErrConflict)
		}
		return tx.Delete(&models.Resume{}, id).Error
	})
}

// IncrementDownloadCount bumps the counter by one at SQL level and returns
// the updated row.
func (s *ResumeStore) IncrementDownloadCount(id uint) (*models.Resume, error) {
	res := s.db.Model(&models.Resume{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var r models.Resume
	if err := s.db.First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func validateResume(in *ResumeInput) error {
	in.FileName = strings.TrimSpace(in.FileName)
	in.FileType = strings.TrimSpace(in.FileType)
	in.UploadID = strings.TrimSpace(in.UploadID)
	if in.FileName == "" {
		return invalid("fileName", "must not be empty")
	}
	if !validAbsoluteURL(in.FileURL) && !strings.HasPrefix(in.FileURL, "/") {
		return invalid("fileUrl", "invalid URL")
	}
	if in.FileSize <= 0 {
		return invalid("fileSize", "must be positive")
	}
	if in.FileType == "" {
		return invalid("fileType", "must not be empty")
	}
	if in.UploadID == "" {
		return invalid("uploadId", "must not be empty")
	}
	return nil
}
