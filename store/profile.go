package store

import (
	"errors"
	"strings"
	"time"

	"guestlist/models"

	"gorm.io/gorm"
)

// profileSlot is the fixed discriminator for the singleton row; the unique
// index on it makes concurrent lazy creation collapse to a single insert.
const profileSlot = 1

// ProfileInput carries an admin profile edit.
type ProfileInput struct {
	Name                string `json:"name"`
	AboutMe             string `json:"aboutMe"`
	NetworkingStatement string `json:"networkingStatement"`
	ProfilePictureURL   string `json:"profilePictureUrl"`
	AppIconURL          string `json:"appIconUrl"`
	LinkedinURL         string `json:"linkedinUrl"`
	GithubURL           string `json:"githubUrl"`
	BuyMeACoffeeURL     string `json:"buyMeACoffeeUrl"`
	PortfolioURL        string `json:"portfolioUrl"`
	ResumeURL           string `json:"resumeUrl"`
	NotificationEmail   string `json:"notificationEmail"`
}

// ProfileStore manages the singleton profile row.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func defaultProfile() models.Profile {
	return models.Profile{
		Slot:                profileSlot,
		Name:                "Admin",
		AboutMe:             "I'm a passionate developer building cool things. Connect with me!",
		NetworkingStatement: "One of my main goals is to network with other professionals. If you are hiring or know someone who is, please feel free to connect, stay in touch, or download my resume.",
		ProfilePictureURL:   "https://placehold.co/400x400.png",
		AppIconURL:          "https://placehold.co/32x32.png",
		ResumeURL:           "/resume.pdf",
		NotificationEmail:   "admin@example.com",
	}
}

// Get returns the profile, creating a default-valued row on first read. Two
// concurrent first reads race on the same unique slot; the loser re-reads
// the winner's row.
func (s *ProfileStore) Get() (*models.Profile, error) {
	var p models.Profile
	err := s.db.Where("slot = ?", profileSlot).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	def := defaultProfile()
	if err := s.db.Create(&def).Error; err != nil {
		if isUniqueViolation(err) {
			if err := s.db.Where("slot = ?", profileSlot).First(&p).Error; err != nil {
				return nil, err
			}
			return &p, nil
		}
		return nil, err
	}
	return &def, nil
}

// Update validates and normalizes the input, then writes it over the
// singleton row, creating it first when absent. Empty optional URLs clear
// the stored value.
func (s *ProfileStore) Update(in ProfileInput) (*models.Profile, error) {
	if err := validateProfile(&in); err != nil {
		return nil, err
	}

	var p models.Profile
	err := s.db.Where("slot = ?", profileSlot).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = models.Profile{Slot: profileSlot}
		applyProfileInput(&p, in)
		if err := s.db.Create(&p).Error; err != nil {
			if !isUniqueViolation(err) {
				return nil, err
			}
			// Lost a creation race; fall through to the update path.
			if err := s.db.Where("slot = ?", profileSlot).First(&p).Error; err != nil {
				return nil, err
			}
		} else {
			return &p, nil
		}
	} else if err != nil {
		return nil, err
	}

	applyProfileInput(&p, in)
	p.UpdatedAt = time.Now()
	// Save writes all fields so emptied optionals are persisted too.
	if err := s.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func applyProfileInput(p *models.Profile, in ProfileInput) {
	p.Name = in.Name
	p.AboutMe = in.AboutMe
	p.NetworkingStatement = in.NetworkingStatement
	p.ProfilePictureURL = in.ProfilePictureURL
	p.AppIconURL = strings.TrimSpace(in.AppIconURL)
	p.LinkedinURL = in.LinkedinURL
	p.GithubURL = in.GithubURL
	p.BuyMeACoffeeURL = in.BuyMeACoffeeURL
	p.PortfolioURL = in.PortfolioURL
	p.ResumeURL = strings.TrimSpace(in.ResumeURL)
	p.NotificationEmail = in.NotificationEmail
}

func validateProfile(in *ProfileInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.AboutMe = strings.TrimSpace(in.AboutMe)
	in.NetworkingStatement = strings.TrimSpace(in.NetworkingStatement)
	in.NotificationEmail = strings.TrimSpace(in.NotificationEmail)
	if in.Name == "" {
		return invalid("name", "must not be empty")
	}
	if in.AboutMe == "" {
		return invalid("aboutMe", "must not be empty")
	}
	if in.NetworkingStatement == "" {
		return invalid("networkingStatement", "must not be empty")
	}
	if !validAbsoluteURL(in.ProfilePictureURL) {
		return invalid("profilePictureUrl", "invalid URL")
	}
	if !validEmail(in.NotificationEmail) {
		return invalid("notificationEmail", "invalid email address")
	}
	// Social links accept bare hosts and get a scheme prefixed. ResumeURL and
	// AppIconURL pass through untouched (ResumeURL may be a relative path).
	in.LinkedinURL = ensureScheme(in.LinkedinURL)
	in.GithubURL = ensureScheme(in.GithubURL)
	in.BuyMeACoffeeURL = ensureScheme(in.BuyMeACoffeeURL)
	in.PortfolioURL = ensureScheme(in.PortfolioURL)
	return nil
}
