package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sweetshop/app/models"
)

func init() {
	Register("sweets", SeedSweets)
}

// SeedSweets loads a small starter catalog on a fresh install.
// Skipped when the sweets table already has rows.
func SeedSweets(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Sweet{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	starter := []models.Sweet{
		{Name: "Gulab Jamun", Category: "indian", Price: 2.50, Quantity: 40},
		{Name: "Kaju Katli", Category: "indian", Price: 4.00, Quantity: 25},
		{Name: "Rasgulla", Category: "indian", Price: 2.00, Quantity: 30},
		{Name: "Dark Chocolate Truffle", Category: "chocolate", Price: 3.25, Quantity: 50},
		{Name: "Milk Chocolate Bar", Category: "chocolate", Price: 1.75, Quantity: 100},
		{Name: "Strawberry Bonbon", Category: "candy", Price: 0.50, Quantity: 200},
		{Name: "Lemon Drop", Category: "candy", Price: 0.40, Quantity: 180},
		{Name: "Vanilla Fudge", Category: "fudge", Price: 2.25, Quantity: 35},
	}

	return db.Create(&starter).Error
}
