// Package migrations registers the schema migrations in order. Importing
// this package (the CLI and server both do) populates the registry.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/migration"
)

func init() {
	migration.Register(migration.Migration{
		Name: "0001_create_users",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.User{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.User{})
		},
	})
}
