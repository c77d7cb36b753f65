package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShawnLiGH/wwtp-equipment-tool/db"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
)

// NewTestLogger returns a development logger for tests
func NewTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

// OpenTestDB opens a fresh SQLite database in a per-test temp directory and
// applies the embedded schema migrations.
func OpenTestDB(t *testing.T) database.DB {
	t.Helper()

	logger := NewTestLogger()
	dbConn, err := database.Connect(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 5 * time.Second,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbConn.Close()
	})

	migrations := database.NewMigrationService(dbConn, db.Migrations, db.MigrationFolder, logger)
	require.NoError(t, migrations.Create())

	return dbConn
}
