package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sweetshop/app/models"
	"github.com/shashiranjanraj/sweetshop/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", migration.Migration{
		Up:   func(db *gorm.DB) error { return db.AutoMigrate(&models.User{}) },
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable("users") },
	})

	migration.Register("20260101000001_create_sweets_table", migration.Migration{
		Up:   func(db *gorm.DB) error { return db.AutoMigrate(&models.Sweet{}) },
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable("sweets") },
	})
}
