package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		"000002_create_tutorial_votes.up.sql",
		"000001_create_governance.up.sql",
		"000001_create_governance.down.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
	return dir
}

func TestUpMigrations_Ordered(t *testing.T) {
	dir := writeMigrations(t)

	files, err := upMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_governance.up.sql",
		"000002_create_tutorial_votes.up.sql",
	}, files)
}

func TestMigrationFilePath(t *testing.T) {
	dir := writeMigrations(t)

	f, err := migrationFilePath(dir, "create_governance.down")
	require.NoError(t, err)
	assert.Equal(t, "000001_create_governance.down.sql", f)

	_, err = migrationFilePath(dir, "drop_everything")
	assert.Error(t, err)
}
