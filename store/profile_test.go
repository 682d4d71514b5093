package store

import (
	"errors"
	"testing"
	"time"

	"guestlist/models"
)

func validProfileInput() ProfileInput {
	return ProfileInput{
		Name:                "Jane",
		AboutMe:             "I build things.",
		NetworkingStatement: "Say hi.",
		ProfilePictureURL:   "https://example.com/me.png",
		NotificationEmail:   "jane@example.com",
	}
}

func TestProfileLazyCreate(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	p, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Admin" {
		t.Fatalf("default name = %q", p.Name)
	}
	if p.NotificationEmail == "" {
		t.Fatal("default notification email missing")
	}

	again, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != p.ID {
		t.Fatalf("second read returned a different row: %d vs %d", again.ID, p.ID)
	}

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	if count != 1 {
		t.Fatalf("profile rows = %d, want 1", count)
	}
}

func TestProfileSingletonConstraint(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)
	if _, err := s.Get(); err != nil {
		t.Fatal(err)
	}
	// a second row on the same slot must be rejected by the store itself
	dup := defaultProfile()
	err := db.Create(&dup).Error
	if !isUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestProfileUpdateNormalizesURLs(t *testing.T) {
	db := testDB(t)
	s := NewProfileStore(db)

	in := validProfileInput()
	in.LinkedinURL = "linkedin.com/x"
	in.GithubURL = "github.com/jane"
	in.PortfolioURL = "https://jane.dev"
	p, err := s.Update(in)
	if err != nil {
		t.Fatal(err)
	}
	if p.LinkedinURL != "https://linkedin.com/x" {
		t.Fatalf("linkedinUrl = %q", p.LinkedinURL)
	}
	if p.GithubURL != "https://github.com/jane" {
		t.Fatalf("githubUrl = %q", p.GithubURL)
	}
	if p.PortfolioURL != "https://jane.dev" {
		t.Fatalf("portfolioUrl = %q", p.PortfolioURL)
	}

	// emptied optionals must clear the stored value
	in.LinkedinURL = ""
	p, err = s.Update(in)
	if err != nil {
		t.Fatal(err)
	}
	if p.LinkedinURL != "" {
		t.Fatalf("linkedinUrl not cleared: %q", p.LinkedinURL)
	}

	var count int64
	db.Model(&models.Profile{}).Count(&count)
	if count != 1 {
		t.Fatalf("profile rows = %d, want 1", count)
	}
}

func TestProfileUpdateCreatesWhenAbsent(t *testing.T) {
	s := NewProfileStore(testDB(t))
	p, err := s.Update(validProfileInput())
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 {
		t.Fatal("row not created")
	}
	if p.Name != "Jane" {
		t.Fatalf("name = %q", p.Name)
	}
}

func TestProfileUpdateValidation(t *testing.T) {
	s := NewProfileStore(testDB(t))
	cases := []struct {
		name   string
		mutate func(*ProfileInput)
		field  string
	}{
		{"empty name", func(in *ProfileInput) { in.Name = "" }, "name"},
		{"empty about", func(in *ProfileInput) { in.AboutMe = " " }, "aboutMe"},
		{"empty statement", func(in *ProfileInput) { in.NetworkingStatement = "" }, "networkingStatement"},
		{"relative picture url", func(in *ProfileInput) { in.ProfilePictureURL = "/me.png" }, "profilePictureUrl"},
		{"bad email", func(in *ProfileInput) { in.NotificationEmail = "nope" }, "notificationEmail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validProfileInput()
			tc.mutate(&in)
			_, err := s.Update(in)
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

func TestProfileUpdatePreservesCreatedAt(t *testing.T) {
	s := NewProfileStore(testDB(t))
	first, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	updated, err := s.Update(validProfileInput())
	if err != nil {
		t.Fatal(err)
	}
	if d := updated.CreatedAt.Sub(first.CreatedAt); d < -time.Second || d > time.Second {
		t.Fatalf("createdAt changed on update: %v vs %v", updated.CreatedAt, first.CreatedAt)
	}
	if updated.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatal("updatedAt not advanced")
	}
}
