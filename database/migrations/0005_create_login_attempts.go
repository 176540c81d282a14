package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/pkg/migration"
)

func init() {
	migration.Register(migration.Migration{
		Name: "0005_create_login_attempts",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.LoginAttempt{})
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropTable(&models.LoginAttempt{})
		},
	})
}
