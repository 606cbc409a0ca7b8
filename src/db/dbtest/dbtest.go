// Package dbtest provides an in-memory database for package tests.
package dbtest

import (
	"fmt"
	"hrc/src/db"
	"hrc/src/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory database with every model migrated
// and installs it as the shared connection until the test ends. A single
// connection is kept so the database outlives individual queries.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg := db.Config()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	d, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)
	sqlDB, err := d.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, d.AutoMigrate(models.All()...))

	db.NewDB(d)
	t.Cleanup(func() {
		db.NewDB(nil)
		sqlDB.Close()
	})
	return d
}
