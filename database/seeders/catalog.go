package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
)

func init() {
	Register(Seeder{Name: "catalog", Run: seedCatalog})
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	apparel := models.Category{Name: "Apparel", Slug: "apparel"}
	if err := db.Create(&apparel).Error; err != nil {
		return err
	}

	products := []models.Product{
		{
			Name: "Work Jacket", SKU: "JKT-001", Price: 89.90, Stock: 40,
			CategoryID: &apparel.ID, IsActive: true,
			Variants: []models.Variant{
				{Size: "M", Color: "navy", Stock: 20},
				{Size: "L", Color: "navy", Stock: 20},
			},
		},
		{
			Name: "Canvas Gloves", SKU: "GLV-010", Price: 7.50, Stock: 500,
			CategoryID: &apparel.ID, IsActive: true,
		},
	}
	return db.Create(&products).Error
}
