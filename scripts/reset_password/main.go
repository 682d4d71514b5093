// Command reset_password sets a new password for an existing admin.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"guestlist/models"
	"guestlist/pkg/dbconn"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "new password (min 6 chars)")
	revoke := flag.Bool("revoke", true, "also revoke outstanding refresh tokens")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "guestlist.db"
	}
	db, err := dbconn.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	var admin models.Admin
	if err := db.Where("username = ?", *username).First(&admin).Error; err != nil {
		log.Fatalf("admin %q not found: %v", *username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	admin.HashedPassword = hash
	if err := db.Save(&admin).Error; err != nil {
		log.Fatalf("save admin: %v", err)
	}

	if *revoke {
		res := db.Model(&models.RefreshToken{}).
			Where("admin_id = ? AND revoked = ?", admin.ID, false).
			Update("revoked", true)
		if res.Error != nil {
			log.Fatalf("revoke refresh tokens: %v", res.Error)
		}
		fmt.Printf("revoked %d refresh token(s)\n", res.RowsAffected)
	}
	fmt.Printf("password reset for %s\n", admin.Username)
}
