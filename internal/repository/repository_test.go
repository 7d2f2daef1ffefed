package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	repo, err := New(Config{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "wellness.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestMigrateIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Migrate(context.Background()))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "oracle"})
	require.Error(t, err)
}
