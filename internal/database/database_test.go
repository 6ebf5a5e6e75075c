package database

import (
	"context"
	"path/filepath"
	"testing"

	"feedbackapp/internal/config"
	"feedbackapp/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(observability.NewLogger(nil))
}

func TestInitDB_CreatesSchema(t *testing.T) {
	dm := newTestManager()
	path := filepath.Join(t.TempDir(), "feedback.db")

	db, err := dm.InitDB(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// The feedback table must exist and accept writes after initialization
	_, err = db.Exec(`INSERT INTO feedback (user, comment, timestamp) VALUES (?, ?, ?)`,
		"alice", "works", "2024-01-01 10:00:00")
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM feedback`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dm := newTestManager()
	path := filepath.Join(t.TempDir(), "feedback.db")

	db, err := dm.InitDB(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// Re-running against an up-to-date schema is a no-op
	assert.NoError(t, dm.RunMigrations(db))
}

func TestInitDBWithConfig_BrokenPathDoesNotFailConstruction(t *testing.T) {
	dm := newTestManager()
	cfg := DefaultDatabaseConfig()
	cfg.Path = filepath.Join(t.TempDir(), "missing-dir", "feedback.db")

	// Construction swallows schema errors; the handle is returned and
	// individual operations surface the failure.
	db, err := dm.InitDBWithConfig(cfg)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`INSERT INTO feedback (user, comment, timestamp) VALUES (?, ?, ?)`,
		"alice", "won't land", "2024-01-01 10:00:00")
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	dm := newTestManager()
	path := filepath.Join(t.TempDir(), "feedback.db")

	db, err := dm.InitDB(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.NoError(t, dm.HealthCheck(context.Background(), db))
}

func TestDefaultDatabaseConfig(t *testing.T) {
	cfg := DefaultDatabaseConfig()
	assert.Equal(t, config.DefaultDatabasePath, cfg.Path)
	assert.Equal(t, config.DefaultMaxOpenConns, cfg.MaxOpenConns)
	assert.Equal(t, config.DefaultMaxIdleConns, cfg.MaxIdleConns)

	t.Setenv("TEST_DATABASE_PATH", "/tmp/test-override.db")
	cfg = DefaultDatabaseConfig()
	assert.Equal(t, "/tmp/test-override.db", cfg.Path)
}
