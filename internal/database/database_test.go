package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/duty-tracker/internal/config"
	"github.com/yukikurage/duty-tracker/internal/logging"
	"github.com/yukikurage/duty-tracker/internal/models"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			d, err := Dialector(&config.Config{DBDriver: driver, SQLitePath: ":memory:"})
			require.NoError(t, err)
			assert.Equal(t, driver, d.Name())
		})
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: ":memory:", LogLevel: "error"}
	log := logging.Discard()

	db, err := Connect(cfg, log)
	require.NoError(t, err)
	require.NoError(t, Migrate(db, log))

	assert.True(t, db.Migrator().HasTable(&models.Document{}))
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel("debug"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Warn, gormLogLevel("info"))
}
