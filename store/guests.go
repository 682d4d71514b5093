package store

import (
	"errors"
	"strings"

	"guestlist/models"

	"gorm.io/gorm"
)

// Closed sets for the guest enum fields. Unknown values are rejected before
// persistence even though the columns are plain varchars.
var (
	PublicActions = []string{"Just saying hi!", "Let's connect!", "Downloaded the resume"}
	GuestRoles    = []string{"business owner", "recruiter", "developer", "hiring manager", "professional", "friend", "other"}
	DisplayPrefs  = []string{"full", "initial", "anonymous"}
)

func isMember(set []string, v string) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

// GuestInput is a visitor submission before validation.
type GuestInput struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Note            string `json:"note"`
	PublicAction    string `json:"publicAction"`
	Role            string `json:"role"`
	DisplayNamePref string `json:"displayNamePref"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// GuestStore manages guestbook entries.
type GuestStore struct {
	db *gorm.DB
}

func NewGuestStore(db *gorm.DB) *GuestStore {
	return &GuestStore{db: db}
}

// List returns all guests, newest first. Hidden entries are excluded unless
// includeHidden is set (admin view).
func (s *GuestStore) List(includeHidden bool) ([]models.Guest, error) {
	var guests []models.Guest
	q := s.db.Model(&models.Guest{})
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (s *GuestStore) GetByID(id uint) (*models.Guest, error) {
	var g models.Guest
	if err := s.db.First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create validates the submission and inserts it. The stored name is the
// submitted name verbatim; display rendering is the caller's concern.
func (s *GuestStore) Create(in GuestInput) (*models.Guest, error) {
	if err := validateGuest(&in); err != nil {
		return nil, err
	}
	g := models.Guest{
		Name:            in.Name,
		Phone:           in.Phone,
		Email:           in.Email,
		Note:            in.Note,
		PublicAction:    in.PublicAction,
		Role:            in.Role,
		DisplayNamePref: in.DisplayNamePref,
		ProfileImageURL: in.ProfileImageURL,
		Hidden:          false,
	}
	if err := s.db.Create(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete hard-deletes the entry.
func (s *GuestStore) Delete(id uint) error {
	res := s.db.Delete(&models.Guest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleHidden flips the moderation flag in a single UPDATE and returns the
// resulting row.
func (s *GuestStore) ToggleHidden(id uint) (*models.Guest, error) {
	res := s.db.Model(&models.Guest{}).Where("id = ?", id).
		UpdateColumn("hidden", gorm.Expr("NOT hidden"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(id)
}

func validateGuest(in *GuestInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return invalid("name", "must not be empty")
	}
	if !validEmail(in.Email) {
		return invalid("email", "invalid email address")
	}
	if !isMember(PublicActions, in.PublicAction) {
		return invalid("publicAction", "unknown value")
	}
	if !isMember(GuestRoles, in.Role) {
		return invalid("role", "unknown value")
	}
	if !isMember(DisplayPrefs, in.DisplayNamePref) {
		return invalid("displayNamePref", "unknown value")
	}
	return nil
}
