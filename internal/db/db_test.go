package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSSLMode(t *testing.T) {
	tests := map[string]string{
		"postgres://u@h/db":                   "postgres://u@h/db?sslmode=require",
		"postgres://u@h/db?connect_timeout=5": "postgres://u@h/db?connect_timeout=5&sslmode=require",
		"postgres://u@h/db?sslmode=disable":   "postgres://u@h/db?sslmode=disable",
		"user=u dbname=db":                    "user=u dbname=db sslmode=require",
	}
	for in, want := range tests {
		assert.Equal(t, want, withSSLMode(in), in)
	}
}

func TestDriver(t *testing.T) {
	assert.True(t, DriverPgx.Valid())
	assert.False(t, Driver("mysql").Valid())
	assert.Equal(t, "postgres", DriverPgx.schema())
	assert.Equal(t, "sqlite", DriverSQLite.schema())
}

func TestOpenMigratesSQLite(t *testing.T) {
	conn, err := Open(context.Background(), DriverSQLite, "file::memory:")
	require.NoError(t, err)
	defer conn.Close()

	version, dirty, err := MigrateVersion(conn, DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// A second run finds nothing to do.
	require.NoError(t, Migrate(conn, DriverSQLite))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("mysql"), "")
	assert.Error(t, err)
}
