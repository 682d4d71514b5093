package main

import (
	"fmt"
	"strings"

	"guestlist/models"

	"golang.org/x/crypto/bcrypt"
)

// CreateAdmin registers a new admin account. Used by seeding.
func CreateAdmin(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username required")
	}
	if len(password) < 6 { // basic password policy
		return fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.Admin
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return fmt.Errorf("admin already exists")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Admin{Username: username, HashedPassword: hashedPassword}
	if err := db.Create(&admin).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return fmt.Errorf("admin already exists")
		}
		return err
	}
	return nil
}

// Authenticate verifies admin credentials.
func Authenticate(username, password string) (models.Admin, error) {
	username = strings.TrimSpace(username)
	var admin models.Admin
	if err := db.Where("username = ?", username).First(&admin).Error; err != nil {
		return models.Admin{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(admin.HashedPassword, []byte(password)); err != nil {
		return models.Admin{}, fmt.Errorf("invalid credentials")
	}
	return admin, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
