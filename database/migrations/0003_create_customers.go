package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/migration"
)

func init() {
	migration.Register(migration.Migration{
		Name: "0003_create_customers",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Customer{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.Customer{})
		},
	})
}
