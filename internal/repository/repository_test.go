// filepath: internal/repository/repository_test.go
package repository

import (
	"os"
	"testing"

	"github.com/Astar201/DataBasePeople/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	const dbPath = "test_store.db"
	os.Remove(dbPath)

	cfg := &config.Config{Database: config.DatabaseConfig{Path: dbPath}}
	repo, err := NewRepository(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create new repository: %v", err)
	}

	if err := repo.Migrate(); err != nil {
		t.Fatalf("Failed to apply test migrations: %v", err)
	}

	cleanup := func() {
		repo.Close()
		os.Remove(dbPath)
	}
	return repo, cleanup
}

func TestNewRepository(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	tables := []string{"accounts", "person_records"}
	for _, table := range tables {
		var name string
		err := repo.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table '%s' was not created: %v", table, err)
		}
	}
}

func TestSchemaVersion(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	version, err := repo.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	assert.NoError(t, repo.ValidateSchema())
}
