package models

import "gorm.io/gorm"

// User is an account holder. IsAdmin gates the admin-only catalog and
// inventory endpoints; it can only be set by the seeder or the admin:grant
// CLI command, never through the API.
type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	IsAdmin  bool   `gorm:"not null;default:false" json:"is_admin"`
}
