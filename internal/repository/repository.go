// filepath: internal/repository/repository.go
package repository

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Astar201/DataBasePeople/internal/config"
	"github.com/Astar201/DataBasePeople/internal/db/migrations"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver
)

// Repository owns the single database connection for the process lifetime.
// It is the only component allowed to touch the backing file; everything
// above it works with the typed models it returns.
type Repository struct {
	DB      *sql.DB
	Cache   *cache.Cache
	Builder squirrel.StatementBuilderType // SQL Query Builder
	Logger  *logrus.Logger
}

// NewRepository opens (or creates) the backing SQLite file and returns the
// repository that owns it. Foreign-key enforcement and a lock-wait timeout
// are enabled on the connection; exceeding the timeout at open time is a
// fatal startup failure for the caller.
func NewRepository(cfg *config.Config, logger *logrus.Logger) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.Database.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
	}

	// One connection, held for the process lifetime. The tool is
	// single-operator and single-process; a second writable handle to the
	// same file is not permitted.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database.Path, err)
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &Repository{
		DB:      db,
		Cache:   cache.New(5*time.Minute, 10*time.Minute),
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		Logger:  logger,
	}, nil
}

// Close releases the database connection.
func (s *Repository) Close() error {
	return s.DB.Close()
}

// Migrate brings the schema forward to the newest embedded migration.
// Re-running at the current version is a no-op; rows are never destroyed.
func (s *Repository) Migrate() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(s.DB, "."); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// SchemaVersion reads the persisted schema version marker.
func (s *Repository) SchemaVersion() (int64, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.DB)
}

// ValidateSchema compares the persisted schema version against the newest
// embedded migration and fails when the database is behind.
func (s *Repository) ValidateSchema() error {
	current, err := s.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	target, err := latestMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to determine target schema version: %w", err)
	}

	if current < target {
		return fmt.Errorf("database schema is outdated: at version %d, want %d (run 'migrate up')", current, target)
	}
	return nil
}

// latestMigrationVersion extracts the highest version number from the
// embedded migration filenames (NNNNN_name.sql).
func latestMigrationVersion() (int64, error) {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return 0, err
	}

	var target int64
	for _, name := range entries {
		var v int64
		prefix, _, found := strings.Cut(name, "_")
		if !found {
			continue
		}
		if _, err := fmt.Sscanf(prefix, "%d", &v); err != nil {
			continue
		}
		if v > target {
			target = v
		}
	}
	if target == 0 {
		return 0, fmt.Errorf("no embedded migrations found")
	}
	return target, nil
}
