package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsOrdered(t *testing.T) {
	t.Parallel()

	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	require.Equal(t, "001_initial", migrations[0].version)
	require.Equal(t, "002_equipment_and_geo", migrations[1].version)
	require.Equal(t, "003_history_photos_audit", migrations[2].version)

	for _, m := range migrations {
		require.NotEmpty(t, m.sql, m.version)
	}
	require.Contains(t, migrations[0].sql, "CREATE TABLE IF NOT EXISTS clients")
	require.Contains(t, migrations[2].sql, "CREATE TABLE IF NOT EXISTS audit_logs")
}
