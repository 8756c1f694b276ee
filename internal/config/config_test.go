package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesFlagDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c, err := Load(fs, nil, "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 5*time.Minute, c.ReapInterval)
	assert.False(t, c.DebugNoTime)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	contents := "addr = \":9090\"\ndebug_no_time = true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c, err := Load(fs, nil, path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Addr)
	assert.True(t, c.DebugNoTime)
	// Untouched-by-file field keeps its flag default.
	assert.Equal(t, 5*time.Minute, c.ReapInterval)
}

func TestLoadCommandLineFlagOverridesDefault(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c, err := Load(fs, []string{"-addr", ":7000"}, "")
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Addr)
}

func TestLoadMissingFileErrors(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	_, err := Load(fs, nil, "/no/such/file.toml")
	assert.Error(t, err)
}
