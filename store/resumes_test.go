package store

import (
	"errors"
	"fmt"
	"testing"

	"guestlist/models"

	"gorm.io/gorm"
)

func resumeInput(name string) ResumeInput {
	return ResumeInput{
		FileName: name,
		FileURL:  "https://files.example.com/" + name,
		FileSize: 120_000,
		FileType: "application/pdf",
		UploadID: "up-" + name,
	}
}

func currentCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Resume{}).Where("is_current = ?", true).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestResumeCreateBecomesCurrent(t *testing.T) {
	db := testDB(t)
	s := NewResumeStore(db)

	r, err := s.Create(resumeInput("cv.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsCurrent {
		t.Fatal("new resume must be current")
	}
	if r.DownloadCount != 0 {
		t.Fatalf("downloadCount = %d, want 0", r.DownloadCount)
	}

	cur, err := s.GetCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if cur.FileName != "cv.pdf" || cur.FileURL != "https://files.example.com/cv.pdf" ||
		cur.FileSize != 120_000 || cur.FileType != "application/pdf" || cur.UploadID != "up-cv.pdf" {
		t.Fatalf("round trip mismatch: %+v", cur)
	}
}

func TestResumeSingleCurrentInvariant(t *testing.T) {
	db := testDB(t)
	s := NewResumeStore(db)

	var last *models.Resume
	for i := 0; i < 3; i++ {
		r, err := s.Create(resumeInput(fmt.Sprintf("cv-%d.pdf", i)))
		if err != nil {
			t.Fatal(err)
		}
		last = r
		if n := currentCount(t, db); n != 1 {
			t.Fatalf("after create %d: current rows = %d, want 1", i, n)
		}
	}
	cur, err := s.GetCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if cur.ID != last.ID {
		t.Fatalf("current = %d, want newest %d", cur.ID, last.ID)
	}
}

func TestResumeSetCurrent(t *testing.T) {
	db := testDB(t)
	s := NewResumeStore(db)

	a, err := s.Create(resumeInput("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Create(resumeInput("b.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	cur, err := s.GetCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if cur.ID != b.ID {
		t.Fatalf("current = %d, want %d", cur.ID, b.ID)
	}

	promoted, err := s.SetCurrent(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !promoted.IsCurrent || promoted.ID != a.ID {
		t.Fatalf("promotion failed: %+v", promoted)
	}
	cur, err = s.GetCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if cur.ID != a.ID {
		t.Fatalf("current = %d, want %d", cur.ID, a.ID)
	}
	var bRow models.Resume
	if err := db.First(&bRow, b.ID).Error; err != nil {
		t.Fatal(err)
	}
	if bRow.IsCurrent {
		t.Fatal("previous current was not demoted")
	}
	if n := currentCount(t, db); n != 1 {
		t.Fatalf("current rows = %d, want 1", n)
	}
}

func TestResumeSetCurrentNotFoundKeepsPrevious(t *testing.T) {
	db := testDB(t)
	s := NewResumeStore(db)

	a, err := s.Create(resumeInput("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetCurrent(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// the failed transaction must not have cleared the flag
	cur, err := s.GetCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if cur.ID != a.ID {
		t.Fatalf("current = %d, want untouched %d", cur.ID, a.ID)
	}
}

func TestResumeDelete(t *testing.T) {
	db := testDB(t)
	s := NewResumeStore(db)

	a, err := s.Create(resumeInput("a.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Create(resumeInput("b.pdf"))
	if err != nil {
		t.Fatal(err)
	}

	// b is current: deleting it is a conflict
	if err := s.Delete(b.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	// a is not: deleting it succeeds and removes it from the listing
	if err := s.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	all, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("listing after delete: %+v", all)
	}
	if err := s.Delete(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResumeIncrementDownloadCount(t *testing.T) {
	db := testDB(t)
	s := NewResumeStore(db)

	r, err := s.Create(resumeInput("cv.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	for want := 1; want <= 2; want++ {
		got, err := s.IncrementDownloadCount(r.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.DownloadCount != want {
			t.Fatalf("downloadCount = %d, want %d", got.DownloadCount, want)
		}
	}
	if _, err := s.IncrementDownloadCount(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResumeListOrder(t *testing.T) {
	s := NewResumeStore(testDB(t))
	var ids []uint
	for i := 0; i < 3; i++ {
		r, err := s.Create(resumeInput(fmt.Sprintf("cv-%d.pdf", i)))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, r.ID)
	}
	all, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
	if all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Fatalf("not newest-first: %d, %d, %d", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestResumeCreateValidation(t *testing.T) {
	s := NewResumeStore(testDB(t))
	cases := []struct {
		name   string
		mutate func(*ResumeInput)
		field  string
	}{
		{"empty file name", func(in *ResumeInput) { in.FileName = "" }, "fileName"},
		{"bad url", func(in *ResumeInput) { in.FileURL = "not a url" }, "fileUrl"},
		{"zero size", func(in *ResumeInput) { in.FileSize = 0 }, "fileSize"},
		{"negative size", func(in *ResumeInput) { in.FileSize = -1 }, "fileSize"},
		{"empty type", func(in *ResumeInput) { in.FileType = "" }, "fileType"},
		{"empty upload id", func(in *ResumeInput) { in.UploadID = "" }, "uploadId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := resumeInput("cv.pdf")
			tc.mutate(&in)
			_, err := s.Create(in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}
