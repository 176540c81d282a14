// Package migration tracks schema migrations in a dedicated table and
// applies them in registration order. Migrations register themselves from
// init() functions in database/migrations.
package migration

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/pkg/logger"
)

// Migration is a named, reversible schema change.
type Migration struct {
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

// record is a row in the migrations table.
type record struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:255"`
	Batch int
	RanAt time.Time
}

func (record) TableName() string { return "sklad_migrations" }

var registry []Migration

// Register adds a migration to the registry. Call from init().
func Register(m Migration) {
	registry = append(registry, m)
}

// Runner applies and rolls back registered migrations against a database.
type Runner struct {
	db *gorm.DB
}

func NewRunner(db *gorm.DB) *Runner { return &Runner{db: db} }

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) ran() (map[string]record, int, error) {
	var rows []record
	if err := r.db.Order("id").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	ran := make(map[string]record, len(rows))
	maxBatch := 0
	for _, row := range rows {
		ran[row.Name] = row
		if row.Batch > maxBatch {
			maxBatch = row.Batch
		}
	}
	return ran, maxBatch, nil
}

// Pending returns the names of registered migrations that have not run yet.
func (r *Runner) Pending() ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, _, err := r.ran()
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, m := range registry {
		if _, ok := ran[m.Name]; !ok {
			pending = append(pending, m.Name)
		}
	}
	return pending, nil
}

// Run applies all pending migrations in a single batch.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	ran, maxBatch, err := r.ran()
	if err != nil {
		return fmt.Errorf("migration: read state: %w", err)
	}
	batch := maxBatch + 1

	for _, m := range registry {
		if _, ok := ran[m.Name]; ok {
			continue
		}
		logger.Info("migration: applying", "name", m.Name)
		if err := m.Up(r.db); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		row := record{Name: m.Name, Batch: batch, RanAt: time.Now()}
		if err := r.db.Create(&row).Error; err != nil {
			return fmt.Errorf("migration %s: record: %w", m.Name, err)
		}
	}
	return nil
}

// Rollback reverts the most recent batch in reverse registration order.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	ran, maxBatch, err := r.ran()
	if err != nil {
		return fmt.Errorf("migration: read state: %w", err)
	}
	if maxBatch == 0 {
		logger.Info("migration: nothing to roll back")
		return nil
	}

	for i := len(registry) - 1; i >= 0; i-- {
		m := registry[i]
		row, ok := ran[m.Name]
		if !ok || row.Batch != maxBatch {
			continue
		}
		logger.Info("migration: rolling back", "name", m.Name)
		if m.Down != nil {
			if err := m.Down(r.db); err != nil {
				return fmt.Errorf("migration %s: rollback: %w", m.Name, err)
			}
		}
		if err := r.db.Delete(&record{}, row.ID).Error; err != nil {
			return fmt.Errorf("migration %s: unrecord: %w", m.Name, err)
		}
	}
	return nil
}

// Status describes one registered migration for CLI display.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// StatusAll reports the run state of every registered migration.
func (r *Runner) StatusAll() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	ran, _, err := r.ran()
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(registry))
	for _, m := range registry {
		s := Status{Name: m.Name}
		if row, ok := ran[m.Name]; ok {
			s.Ran = true
			s.Batch = row.Batch
		}
		out = append(out, s)
	}
	return out, nil
}
