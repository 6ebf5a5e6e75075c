package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"feedbackapp/internal/config"
	"feedbackapp/internal/database"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommands(t *testing.T) (*services.FeedbackService, *config.Config) {
	t.Helper()

	logger := observability.NewLogger(nil)
	path := filepath.Join(t.TempDir(), "feedback.db")
	dm := database.NewManager(logger)
	db, err := dm.InitDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{Database: config.DatabaseConfig{Path: path}}
	return services.NewFeedbackService(db, logger), cfg
}

func runCommand(t *testing.T, svc *services.FeedbackService, cfg *config.Config, args ...string) string {
	t.Helper()

	cmd := DatabaseCommands(svc, observability.NewLogger(nil), cfg)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSeed_PopulatesEmptyDatabase(t *testing.T) {
	svc, cfg := newTestCommands(t)

	out := runCommand(t, svc, cfg, "seed")
	assert.Contains(t, out, "Added 3 sample feedback entries.")

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSeed_SkipsNonEmptyDatabase(t *testing.T) {
	svc, cfg := newTestCommands(t)
	require.True(t, svc.Create(context.Background(), "alice", "already here"))

	out := runCommand(t, svc, cfg, "seed")
	assert.Contains(t, out, "already has 1 feedback entries")

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClear_RemovesAllEntries(t *testing.T) {
	svc, cfg := newTestCommands(t)
	runCommand(t, svc, cfg, "seed")

	out := runCommand(t, svc, cfg, "clear")
	assert.Contains(t, out, "Removed 3 feedback entries.")

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStats_ReportsCountAndPath(t *testing.T) {
	svc, cfg := newTestCommands(t)
	runCommand(t, svc, cfg, "seed")

	out := runCommand(t, svc, cfg, "stats")
	assert.Contains(t, out, "entries: 3")
	assert.Contains(t, out, cfg.Database.Path)
}
