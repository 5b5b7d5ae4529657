package seeders

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/config"
	"github.com/shashiranjanraj/sweetshop/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the bootstrap admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. This is the only way an admin exists on a fresh install,
// since the API never sets the admin flag. Idempotent: an existing account
// with that email is promoted rather than duplicated.
func SeedAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(config.AdminEmail()))

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.IsAdmin {
			return nil
		}
		existing.IsAdmin = true
		return db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.AdminPassword())
	if err != nil {
		return err
	}

	admin := models.User{Email: email, Password: hash, IsAdmin: true}
	return db.Create(&admin).Error
}
