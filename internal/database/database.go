// Package database provides database connection and migration functionality.
package database

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"sync"

	"feedbackapp/internal/config"
	"feedbackapp/internal/observability"
	contextutils "feedbackapp/internal/utils"

	// Import the pure-Go SQLite driver for database/sql
	_ "modernc.org/sqlite"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// OpenTelemetry SQL instrumentation
	"go.nhat.io/otelsql"

	"go.opentelemetry.io/otel/attribute"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Manager handles database operations with proper logging
type Manager struct {
	logger *observability.Logger
}

var (
	otelDriverNameCache string
	otelDriverOnce      sync.Once
	otelDriverErr       error
)

// NewManager creates a new database manager with the provided logger
func NewManager(logger *observability.Logger) *Manager {
	return &Manager{
		logger: logger,
	}
}

// DefaultDatabaseConfig returns the default database configuration
func DefaultDatabaseConfig() config.DatabaseConfig {
	cfg := config.DatabaseConfig{
		Path:            config.DefaultDatabasePath,
		MaxOpenConns:    config.DefaultMaxOpenConns,
		MaxIdleConns:    config.DefaultMaxIdleConns,
		ConnMaxLifetime: config.Duration(config.DatabaseConnMaxLifetime),
	}

	// Check for TEST_DATABASE_PATH first (for tests)
	if testPath := os.Getenv("TEST_DATABASE_PATH"); testPath != "" {
		cfg.Path = testPath
	}

	return cfg
}

// InitDB initializes and returns a database connection with migrations
func (dm *Manager) InitDB(path string) (*sql.DB, error) {
	cfg := DefaultDatabaseConfig()
	cfg.Path = path
	return dm.InitDBWithConfig(cfg)
}

// InitDBWithConfig initializes and returns a database connection with migrations
// and custom config.
//
// Migration failures are logged and swallowed rather than failing
// initialization; a broken database location surfaces errors only when
// individual operations run.
func (dm *Manager) InitDBWithConfig(cfg config.DatabaseConfig) (result0 *sql.DB, err error) {
	_, span := observability.TraceDatabaseFunction(context.Background(), "InitDBWithConfig",
		attribute.String("db.path", cfg.Path),
		attribute.String("db.system", "sqlite"),
		attribute.Int("db.max_open_conns", cfg.MaxOpenConns),
		attribute.Int("db.max_idle_conns", cfg.MaxIdleConns),
	)
	defer observability.FinishSpan(span, &err)

	db, err := dm.open(cfg)
	if err != nil {
		return nil, err
	}

	// Ping and migration failures do not fail construction; a broken storage
	// location surfaces errors when individual operations run.
	if pingErr := db.Ping(); pingErr != nil {
		dm.logger.Warn(context.Background(), "Database unreachable at startup", map[string]interface{}{
			"db_path": cfg.Path,
			"error":   pingErr.Error(),
		})
		return db, nil
	}

	if migErr := dm.RunMigrations(db); migErr != nil {
		dm.logger.Warn(context.Background(), "Schema migration failed; continuing with unverified schema", map[string]interface{}{
			"db_path": cfg.Path,
			"error":   migErr.Error(),
		})
	}

	return db, nil
}

// open opens the SQLite database through the OpenTelemetry-instrumented driver
func (dm *Manager) open(cfg config.DatabaseConfig) (*sql.DB, error) {
	// Register the instrumented driver once per process and reuse the name
	otelDriverOnce.Do(func() {
		otelDriverNameCache, otelDriverErr = otelsql.Register("sqlite",
			otelsql.WithDatabaseName(filepath.Base(cfg.Path)),
			otelsql.TraceQueryWithArgs(),
			otelsql.TraceRowsAffected(),
		)
	})
	if otelDriverErr != nil {
		return nil, contextutils.WrapError(otelDriverErr, "failed to register otelsql driver")
	}

	dsn := filepath.Clean(cfg.Path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open(otelDriverNameCache, dsn)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to open database")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime.AsDuration())

	dm.logger.Info(context.Background(), "Database handle opened", map[string]interface{}{
		"db_path": cfg.Path,
	})

	return db, nil
}

// RunMigrations applies the embedded schema migrations. Re-running against an
// up-to-date database is a no-op.
func (dm *Manager) RunMigrations(db *sql.DB) (err error) {
	_, span := observability.TraceDatabaseFunction(context.Background(), "RunMigrations",
		attribute.String("db.system", "sqlite"),
		attribute.String("migration.type", "golang_migrate"),
	)
	defer observability.FinishSpan(span, &err)

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return contextutils.WrapError(err, "failed to load embedded migrations")
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return contextutils.WrapError(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "feedback", driver)
	if err != nil {
		return contextutils.WrapError(err, "failed to initialize golang-migrate")
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return contextutils.WrapError(err, "golang-migrate up failed")
	}
	if err == migrate.ErrNoChange {
		dm.logger.Info(context.Background(), "No new migrations to apply")
	} else {
		dm.logger.Info(context.Background(), "Migrations applied successfully")
	}
	return nil
}

// HealthCheck pings the database; used by the /health endpoint
func (dm *Manager) HealthCheck(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return contextutils.WrapError(err, "database ping failed")
	}
	return nil
}
