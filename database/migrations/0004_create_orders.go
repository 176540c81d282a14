package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/migration"
)

func init() {
	migration.Register(migration.Migration{
		Name: "0004_create_orders",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
		},
	})
}
