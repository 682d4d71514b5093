// Package upload stores files behind a small backend interface and hands
// back the durable metadata the rest of the app records. Content checks stop
// at MIME type and size; file contents are stored opaque.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxFileSize caps both resume and image uploads.
const MaxFileSize = 4 << 20 // 4 MB

var (
	ErrTooLarge = errors.New("file too large")
	ErrBadType  = errors.New("unsupported file type")
)

// Result is what a backend returns after storing a file. The fields map
// straight onto the resume/profile columns that record them.
type Result struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
	// ExternalID is the backend's handle for the stored object.
	ExternalID string `json:"externalId"`
}

// Uploader stores a file and returns its durable metadata.
type Uploader interface {
	Store(ctx context.Context, name, contentType string, r io.Reader, size int64) (Result, error)
}

// CheckResume validates resume upload constraints (pdf only).
func CheckResume(contentType string, size int64) error {
	if size <= 0 || size > MaxFileSize {
		return fmt.Errorf("%w (max %d bytes)", ErrTooLarge, MaxFileSize)
	}
	if contentType != "application/pdf" {
		return fmt.Errorf("%w: %s", ErrBadType, contentType)
	}
	return nil
}

// CheckImage validates avatar/app-icon upload constraints.
func CheckImage(contentType string, size int64) error {
	if size <= 0 || size > MaxFileSize {
		return fmt.Errorf("%w (max %d bytes)", ErrTooLarge, MaxFileSize)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: %s", ErrBadType, contentType)
	}
	return nil
}
