package migration

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/glebarez/sqlite"
	clientdomain "github.com/railzwaylabs/idsrvctl/internal/client/domain"
	"github.com/railzwaylabs/idsrvctl/internal/config"
	scopedomain "github.com/railzwaylabs/idsrvctl/internal/scope/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestLatestMigrationVersion(t *testing.T) {
	version, err := LatestMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestMigrationsChecksum_Stable(t *testing.T) {
	a, err := MigrationsChecksum()
	require.NoError(t, err)
	b, err := MigrationsChecksum()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestParseMigrationVersion(t *testing.T) {
	v, ok := parseMigrationVersion("000002_scopes.up.sql")
	assert.True(t, ok)
	assert.Equal(t, uint(2), v)

	_, ok = parseMigrationVersion("scopes.up.sql")
	assert.False(t, ok)
}

func TestNewSource_WalksEmbeddedMigrations(t *testing.T) {
	src, err := newSource()
	require.NoError(t, err)
	defer src.Close()

	latest, err := LatestMigrationVersion()
	require.NoError(t, err)

	version, err := src.First()
	require.NoError(t, err)
	var seen []uint
	for {
		seen = append(seen, version)

		up, name, err := src.ReadUp(version)
		require.NoError(t, err)
		body, err := io.ReadAll(up)
		require.NoError(t, err)
		_ = up.Close()
		assert.Contains(t, string(body), "CREATE TABLE", name)

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down migration for %d", version)
		_ = down.Close()

		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		version = next
	}
	assert.Equal(t, []uint{1, latest}, seen)
}

func TestRun_SQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Run(context.Background(), conn, config.DriverSQLite, zap.NewNop()))
	// A second run is a no-op.
	require.NoError(t, Run(context.Background(), conn, config.DriverSQLite, zap.NewNop()))

	m := conn.Migrator()
	for _, table := range []string{
		"clients", "client_secrets", "client_redirect_uris", "client_post_logout_redirect_uris",
		"client_grant_type_restrictions", "client_scope_restrictions", "client_idp_restrictions",
		"client_claims", "scopes", "scope_claims",
	} {
		assert.True(t, m.HasTable(table), table)
	}
	assert.True(t, m.HasColumn(&clientdomain.Client{}, "include_jwt_id"))
	assert.True(t, m.HasColumn(&scopedomain.ScopeClaim{}, "always_include_in_id_token"))
}
