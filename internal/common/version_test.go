package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVersionFromFile(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".version"), []byte("1.4.2\n"), 0o644))
	t.Chdir(dir)

	assert.Equal(t, "1.4.2", LoadVersionFromFile())
	assert.Equal(t, "1.4.2", GetVersion())
}

func TestLoadVersionFromFileMissing(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	t.Chdir(t.TempDir())

	// No .version anywhere, the compiled-in version stands.
	assert.Equal(t, orig, LoadVersionFromFile())
}

func TestLoadVersionFromFileEmpty(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".version"), []byte("  \n"), 0o644))
	t.Chdir(dir)

	assert.Equal(t, orig, LoadVersionFromFile())
}

func TestGetFullVersion(t *testing.T) {
	full := GetFullVersion()
	assert.Contains(t, full, GetVersion())
	assert.Contains(t, full, "build:")
	assert.Contains(t, full, "commit:")
}
