package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

func TestConnect(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, err := Connect(Config{Driver: DriverNone})
		assert.ErrorIs(t, err, ErrDisabled)
		assert.False(t, Config{}.Enabled())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Connect(Config{Driver: "postgres"})
		assert.ErrorIs(t, err, ErrUnknownDriver)
	})

	t.Run("sqlite file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")
		db, err := Connect(Config{Driver: DriverSQLite, Path: path})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		defer sqlDB.Close()
		assert.NoError(t, sqlDB.Ping())
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 3306, User: "wcx", Password: "secret", Database: "lab"}
	assert.Equal(t,
		"wcx:secret@tcp(db:3306)/lab?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		cfg.DSN())
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db, DriverSQLite, ""))
	// Running again is a no-op.
	require.NoError(t, Migrate(db, DriverSQLite, ""))

	assert.True(t, db.Migrator().HasTable(&evaluation.Run{}))
	assert.True(t, db.Migrator().HasTable("evaluation_scores"))

	store := evaluation.NewSQLStore(db, logger.NewTestLogger())
	ctx := context.Background()
	run := &evaluation.Run{ProjectName: "lab"}
	require.NoError(t, store.Create(ctx, run))
	require.NoError(t, store.AddScores(ctx, run.ID, []*evaluation.Score{{AppID: "spa", WCS: 0.3092}}))

	scores, err := store.ListScores(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 0.3092, scores[0].WCS)
}

func TestMigrate_UnknownDriver(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.ErrorIs(t, Migrate(db, "oracle", ""), ErrUnknownDriver)
	assert.ErrorIs(t, Rollback(db, "oracle", ""), ErrUnknownDriver)
	assert.ErrorIs(t, Rollback(db, DriverSQLite, ""), ErrRollbackUnsupported)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_evaluation_runs.up.sql")
	assert.Contains(t, names, "000002_create_evaluation_scores.down.sql")
	assert.Len(t, names, 4)
}
