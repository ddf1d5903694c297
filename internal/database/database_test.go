package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/database"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "pipeline.db"),
	}

	db, err := database.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.Client{}))
	assert.True(t, db.Migrator().HasTable(&domain.ClientHistory{}))
	assert.True(t, db.Migrator().HasColumn(&domain.ClientHistory{}, "user"))
	assert.True(t, db.Migrator().HasTable(&domain.PipelineState{}))

	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := database.NewDatabase(&config.DatabaseConfig{Driver: "mssql"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
