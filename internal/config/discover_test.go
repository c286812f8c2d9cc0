package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")
	require.NoError(t, os.Chdir(dir), "failed to change directory")
	t.Cleanup(func() {
		assert.NoError(t, os.Chdir(origDir), "failed to restore working directory")
	})
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := DefaultPath()
	assert.Contains(t, path, filepath.Join(".config", "mediaprep", "config.toml"))
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	path := DefaultPath()
	assert.Equal(t, filepath.Join("/custom/config", "mediaprep", "config.toml"), path)
}

func TestDiscover_MEDIAPREP_CONFIG(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[paths]"), 0644))

	t.Setenv("MEDIAPREP_CONFIG", cfgPath)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
}

func TestDiscover_MEDIAPREP_CONFIG_NotFound(t *testing.T) {
	t.Setenv("MEDIAPREP_CONFIG", "/nonexistent/config.toml")

	_, err := Discover()
	require.Error(t, err, "expected error for missing MEDIAPREP_CONFIG")
	assert.Contains(t, err.Error(), "MEDIAPREP_CONFIG")
	assert.NotErrorIs(t, err, ErrNotFound, "an explicit env path never falls back to defaults")
}

func TestDiscover_CurrentDir(t *testing.T) {
	t.Setenv("MEDIAPREP_CONFIG", "")

	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "mediaprep.toml"), []byte("[paths]"), 0644))
	chdir(t, tmp)

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, "mediaprep.toml", filepath.Base(path))
}

func TestDiscover_XDG(t *testing.T) {
	t.Setenv("MEDIAPREP_CONFIG", "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	want := filepath.Join(xdg, "mediaprep", "config.toml")
	require.NoError(t, WriteDefault(want, false))
	chdir(t, t.TempDir())

	path, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestDiscover_NotFound(t *testing.T) {
	if _, err := os.Stat("/etc/mediaprep/config.toml"); err == nil {
		t.Skip("system config present")
	}
	t.Setenv("MEDIAPREP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	chdir(t, t.TempDir())

	_, err := Discover()
	require.Error(t, err, "expected error when no config found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "config not found, checked:")
}

func TestResolve_DefaultsWhenNothingFound(t *testing.T) {
	if _, err := os.Stat("/etc/mediaprep/config.toml"); err == nil {
		t.Skip("system config present")
	}
	t.Setenv("MEDIAPREP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
	chdir(t, t.TempDir())

	cfg, path, err := Resolve("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Defaults(), cfg)
}

func TestResolve_ExplicitPathWins(t *testing.T) {
	other := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(other, []byte("[video]\nquality = 30\n"), 0644))
	t.Setenv("MEDIAPREP_CONFIG", other)

	explicit := filepath.Join(t.TempDir(), "explicit.toml")
	require.NoError(t, os.WriteFile(explicit, []byte("[video]\nquality = 18\n"), 0644))

	cfg, path, err := Resolve(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.Equal(t, 18, cfg.Video.Quality)
}

func TestResolve_ExplicitPathMissing(t *testing.T) {
	_, _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
