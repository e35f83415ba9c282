// Package databasetest opens throwaway migrated SQLite databases for tests.
package databasetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/config"
	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/migration"
)

// New returns connections to a fresh file-backed SQLite database with every
// migration applied. The database is closed when the test ends.
func New(t testing.TB) *database.Connections {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "gridlock.db")
	conns, err := database.Open(config.Database{Driver: "sqlite", WriterDSN: dsn, ReaderDSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	migrator, err := migration.New(conns, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up(context.Background()))

	return conns
}
