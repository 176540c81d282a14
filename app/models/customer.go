package models

import "gorm.io/gorm"

// Customer is a CRM contact. Phone and Email are optional but unique when
// set; pointer fields keep NULLs out of the unique indexes.
type Customer struct {
	gorm.Model
	Name   string  `gorm:"size:255;not null;index" json:"name"`
	Phone  *string `gorm:"size:50;uniqueIndex" json:"phone"`
	Email  *string `gorm:"size:255;uniqueIndex" json:"email"`
	Notes  string  `gorm:"type:text" json:"notes"`
	Orders []Order `json:"orders,omitempty"`
}
