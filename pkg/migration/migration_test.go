package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/pkg/database"
)

type widget struct {
	ID   uint
	Name string
}

type gadget struct {
	ID uint
}

func TestRunnerLifecycle(t *testing.T) {
	saved := registry
	registry = nil
	t.Cleanup(func() { registry = saved })

	Register(Migration{
		Name: "0001_create_widgets",
		Up:   func(db *gorm.DB) error { return db.AutoMigrate(&widget{}) },
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) },
	})

	db, err := database.Open("sqlite", "file:migration_test?mode=memory&cache=shared")
	require.NoError(t, err)
	runner := NewRunner(db)

	pending, err := runner.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_widgets"}, pending)

	require.NoError(t, runner.Run())
	assert.True(t, db.Migrator().HasTable(&widget{}))

	// Re-running applies nothing new.
	require.NoError(t, runner.Run())
	statuses, err := runner.StatusAll()
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Ran)
	assert.Equal(t, 1, statuses[0].Batch)

	// A later migration lands in its own batch.
	Register(Migration{
		Name: "0002_create_gadgets",
		Up:   func(db *gorm.DB) error { return db.AutoMigrate(&gadget{}) },
		Down: func(db *gorm.DB) error { return db.Migrator().DropTable(&gadget{}) },
	})
	require.NoError(t, runner.Run())
	statuses, err = runner.StatusAll()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, 2, statuses[1].Batch)

	// Rollback reverts only the latest batch.
	require.NoError(t, runner.Rollback())
	assert.False(t, db.Migrator().HasTable(&gadget{}))
	assert.True(t, db.Migrator().HasTable(&widget{}))

	pending, err = runner.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_create_gadgets"}, pending)
}
