package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:idsrv.db?_pragma=foreign_keys(1)", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDSRV_DATABASE_DRIVER", "Postgres")
	t.Setenv("IDSRV_DATABASE_DSN", "postgres://localhost/idsrv")
	t.Setenv("IDSRV_DATABASE_SCHEMA", "idsrv")
	t.Setenv("IDSRV_LOG_LEVEL", "debug")

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/idsrv", cfg.Database.DSN)
	assert.Equal(t, "idsrv", cfg.Database.Schema)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestNew_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "idsrv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: mysql\n  dsn: user@/idsrv\nlog:\n  format: json\n"), 0o600))

	v, err := NewViper(path)
	require.NoError(t, err)
	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "user@/idsrv", cfg.Database.DSN)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestNew_InMemorySQLiteUsesOneConnection(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDSRV_DATABASE_DSN", "file::memory:")

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IDSRV_DATABASE_DRIVER", "oracle")

	v, err := NewViper("")
	require.NoError(t, err)
	_, err = New(v)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewViper_MissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
