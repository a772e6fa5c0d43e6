package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "birthday-card"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	card, err := CardFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "card.yaml"), card)

	seal, err := SealFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "seal"), seal)
}

func TestStatePaths(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_STATE_HOME", base)

	log, err := LogFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "birthday-card", "card.log"), log)
}

func TestStateDir_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)

	dir, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "state", "birthday-card"), dir)
}
