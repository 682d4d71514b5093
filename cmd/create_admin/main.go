// Command create_admin creates or updates an admin account directly in the
// database, for bootstrapping an instance without the seeded default.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"guestlist/models"
	"guestlist/pkg/dbconn"
)

func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password (min 6 chars)")
	update := flag.Bool("update", false, "update the password if the admin already exists")
	flag.Parse()

	*username = strings.TrimSpace(*username)
	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
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
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		log.Fatalf("migrate admins: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var existing models.Admin
	err = db.Where("username = ?", *username).First(&existing).Error
	switch {
	case err == nil && !*update:
		log.Fatalf("admin %q already exists (use -update to change the password)", *username)
	case err == nil:
		existing.HashedPassword = hash
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("update admin: %v", err)
		}
		fmt.Printf("updated password for %s (id=%d)\n", existing.Username, existing.ID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin := models.Admin{Username: *username, HashedPassword: hash}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("create admin: %v", err)
		}
		fmt.Printf("created admin %s (id=%d)\n", admin.Username, admin.ID)
	default:
		log.Fatalf("lookup admin: %v", err)
	}
}
