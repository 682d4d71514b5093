package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes files under a base directory that the HTTP server serves
// statically. Stored names are prefixed with the object id so repeated
// uploads of the same filename never collide.
type LocalStore struct {
	BaseDir string
	// PublicBase is the URL path prefix the base directory is served at.
	PublicBase string
}

func NewLocalStore(baseDir, publicBase string) *LocalStore {
	return &LocalStore{BaseDir: baseDir, PublicBase: publicBase}
}

func (s *LocalStore) Store(ctx context.Context, name, contentType string, r io.Reader, size int64) (Result, error) {
	id := uuid.NewString()
	stored := id + "-" + filepath.Base(name)
	if err := os.MkdirAll(s.BaseDir, 0755); err != nil {
		return Result{}, fmt.Errorf("mkdir %s: %w", s.BaseDir, err)
	}
	path := filepath.Join(s.BaseDir, stored)
	f, err := os.Create(path)
	if err != nil {
		return Result{}, err
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return Result{}, err
	}
	return Result{
		URL:        s.PublicBase + "/" + stored,
		FileName:   name,
		FileSize:   written,
		FileType:   contentType,
		ExternalID: id,
	}, nil
}
