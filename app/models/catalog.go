package models

import "gorm.io/gorm"

// Product is a catalogue entry.
type Product struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	SKU         string  `gorm:"size:100;uniqueIndex" json:"sku"`
	ImagePath   string  `gorm:"size:255" json:"image_path"` // storage disk path, not a URL
	CategoryID  *uint   `gorm:"index" json:"category_id"`
}

// Category groups products for the storefront navigation.
type Category struct {
	gorm.Model
	Name string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
}
