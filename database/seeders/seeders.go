// Package seeders fills an empty database with working data: one account
// per role and a small demo catalogue. Seeders are idempotent so running
// them twice is safe.
package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/pkg/logger"
)

// Seeder is one named seeding step.
type Seeder struct {
	Name string
	Run  func(db *gorm.DB) error
}

var registry []Seeder

// Register adds a seeder; order of registration is execution order.
func Register(s Seeder) {
	registry = append(registry, s)
}

// RunAll executes every registered seeder.
func RunAll(db *gorm.DB) error {
	for _, s := range registry {
		logger.Info("seeding", "name", s.Name)
		if err := s.Run(db); err != nil {
			return fmt.Errorf("seeder %s: %w", s.Name, err)
		}
	}
	return nil
}
