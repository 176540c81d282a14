package models

import "gorm.io/gorm"

// Category groups products in the catalogue.
type Category struct {
	gorm.Model
	Name     string    `gorm:"size:255;not null" json:"name"`
	Slug     string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Products []Product `json:"products,omitempty"`
}

// Product is a warehouse item. Stock is decremented atomically when orders
// are placed and must never go negative.
type Product struct {
	gorm.Model
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text"              json:"description"`
	Price       float64   `gorm:"not null;default:0"     json:"price"`
	Stock       int       `gorm:"not null;default:0"     json:"stock"`
	SKU         string    `gorm:"size:100;uniqueIndex"   json:"sku"`
	ImageURL    string    `gorm:"size:1024"              json:"imageUrl"`
	IsActive    bool      `gorm:"not null;default:true"  json:"isActive"`
	CategoryID  *uint     `gorm:"index"                  json:"categoryId"`
	Category    *Category `json:"category,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Variant is a size/color variation of a product with its own stock count.
type Variant struct {
	gorm.Model
	ProductID uint   `gorm:"not null;index" json:"productId"`
	Size      string `gorm:"size:50"        json:"size"`
	Color     string `gorm:"size:50"        json:"color"`
	Stock     int    `gorm:"not null;default:0" json:"stock"`
}
