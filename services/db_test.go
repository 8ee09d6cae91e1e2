package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trace-quest-engine/models"
)

// setupTestDB opens a per-test in-memory database to avoid cross-test
// interference.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Stage{},
		&models.Breakdown{},
		&models.Claim{},
		&models.Evidence{},
		&models.Player{},
		&models.Mission{},
		&models.Badge{},
	))
	return db
}
