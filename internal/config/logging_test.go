package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogFile_PrunesOldest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"reqgen-2020-01-01T00-00-00.log",
		"reqgen-2020-01-02T00-00-00.log",
		"reqgen-2020-01-03T00-00-00.log",
		"other.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	_, err = f.WriteString("hello\n")
	require.NoError(t, err)

	logs, err := filepath.Glob(filepath.Join(dir, "reqgen-*.log"))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Contains(t, logs, filepath.Join(dir, "reqgen-2020-01-03T00-00-00.log"))
	assert.Contains(t, logs, f.Name())

	assert.FileExists(t, filepath.Join(dir, "other.log"))
}
