package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/migration"
)

func init() {
	migration.Register(migration.Migration{
		Name: "0002_create_catalog",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Category{}, &models.Product{}, &models.Variant{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Variant{}, &models.Product{}, &models.Category{})
		},
	})
}
