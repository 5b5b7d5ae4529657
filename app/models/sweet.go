package models

import "gorm.io/gorm"

// Sweet is a catalog item. Quantity is the number of units in stock and is
// never allowed to go negative.
type Sweet struct {
	gorm.Model
	Name     string  `gorm:"size:255;not null;index" json:"name"`
	Category string  `gorm:"size:100;not null;index" json:"category"`
	Price    float64 `gorm:"not null;default:0"      json:"price"`
	Quantity int     `gorm:"not null;default:0"      json:"quantity"`
}
