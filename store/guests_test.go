package store

import (
	"errors"
	"testing"
)

func validGuestInput() GuestInput {
	return GuestInput{
		Name:            "Jane Doe",
		Email:           "jane@x.com",
		PublicAction:    "Just saying hi!",
		Role:            "developer",
		DisplayNamePref: "initial",
	}
}

func TestGuestCreateValidation(t *testing.T) {
	s := NewGuestStore(testDB(t))

	cases := []struct {
		name   string
		mutate func(*GuestInput)
		field  string
	}{
		{"empty name", func(in *GuestInput) { in.Name = "  " }, "name"},
		{"bad email", func(in *GuestInput) { in.Email = "not-an-email" }, "email"},
		{"unknown action", func(in *GuestInput) { in.PublicAction = "Hello!" }, "publicAction"},
		{"unknown role", func(in *GuestInput) { in.Role = "ceo" }, "role"},
		{"unknown pref", func(in *GuestInput) { in.DisplayNamePref = "nickname" }, "displayNamePref"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validGuestInput()
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

	// nothing should have been persisted
	all, err := s.List(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no rows, got %d", len(all))
	}
}

func TestGuestCreateStoresVerbatim(t *testing.T) {
	s := NewGuestStore(testDB(t))
	g, err := s.Create(validGuestInput())
	if err != nil {
		t.Fatal(err)
	}
	if g.ID == 0 {
		t.Fatal("id not assigned")
	}
	if g.Name != "Jane Doe" {
		t.Fatalf("stored name %q, want verbatim \"Jane Doe\"", g.Name)
	}
	if g.Hidden {
		t.Fatal("new guest must not be hidden")
	}
	if g.CreatedAt.IsZero() {
		t.Fatal("createdAt not assigned")
	}
}

func TestGuestListHiddenFilter(t *testing.T) {
	s := NewGuestStore(testDB(t))
	var ids []uint
	for _, name := range []string{"First Guest", "Second Guest", "Third Guest"} {
		in := validGuestInput()
		in.Name = name
		g, err := s.Create(in)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, g.ID)
	}
	if _, err := s.ToggleHidden(ids[1]); err != nil {
		t.Fatal(err)
	}

	visible, err := s.List(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(visible))
	}
	for _, g := range visible {
		if g.ID == ids[1] {
			t.Fatal("hidden guest leaked into public listing")
		}
	}
	// newest first
	if visible[0].ID != ids[2] {
		t.Fatalf("first listed id = %d, want newest %d", visible[0].ID, ids[2])
	}

	all, err := s.List(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
}

func TestGuestToggleHiddenTwice(t *testing.T) {
	s := NewGuestStore(testDB(t))
	g, err := s.Create(validGuestInput())
	if err != nil {
		t.Fatal(err)
	}
	once, err := s.ToggleHidden(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !once.Hidden {
		t.Fatal("first toggle should hide")
	}
	twice, err := s.ToggleHidden(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if twice.Hidden != g.Hidden {
		t.Fatal("double toggle should restore the original state")
	}
}

func TestGuestToggleHiddenNotFound(t *testing.T) {
	s := NewGuestStore(testDB(t))
	if _, err := s.ToggleHidden(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGuestDelete(t *testing.T) {
	s := NewGuestStore(testDB(t))
	g, err := s.Create(validGuestInput())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetByID(g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
