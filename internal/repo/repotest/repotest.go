// Package repotest opens throwaway in-memory databases for tests.
package repotest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mohit-mindspick/whatsapp/internal/db"
	"github.com/mohit-mindspick/whatsapp/internal/models"
)

// InitTestDB returns a migrated in-memory database closed at test cleanup.
func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := g.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, g.AutoMigrate(models.All()...))
	return g
}

// NewRouter returns a router whose read and write pools share one database.
func NewRouter(t *testing.T) (*db.Router, *gorm.DB) {
	t.Helper()
	g := InitTestDB(t)
	return db.NewRouter(g, nil), g
}
