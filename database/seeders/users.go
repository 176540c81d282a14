package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/config"
	"github.com/shashiranjanraj/sklad/pkg/auth"
	"github.com/shashiranjanraj/sklad/pkg/rbac"
)

func init() {
	Register(Seeder{Name: "users", Run: seedUsers})
}

// seedUsers creates one account per role. The shared password comes from
// SEED_PASSWORD so deployments can override it.
func seedUsers(db *gorm.DB) error {
	hash, err := auth.HashPassword(config.Get("SEED_PASSWORD", "password123"))
	if err != nil {
		return err
	}

	accounts := []models.User{
		{Name: "Olga Owner", Email: "owner@sklad.local", Role: string(rbac.Owner)},
		{Name: "Andrei Admin", Email: "admin@sklad.local", Role: string(rbac.Admin)},
		{Name: "Maria Manager", Email: "manager@sklad.local", Role: string(rbac.Manager)},
		{Name: "Egor Employee", Email: "employee@sklad.local", Role: string(rbac.Employee)},
		{Name: "Ivan Intern", Email: "intern@sklad.local", Role: string(rbac.Intern)},
	}

	for _, u := range accounts {
		u.Password = hash
		var existing models.User
		err := db.Where("email = ?", u.Email).Attrs(u).FirstOrCreate(&existing).Error
		if err != nil {
			return err
		}
	}
	return nil
}
