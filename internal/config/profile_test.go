package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile_MissingFileUsesDefaults(t *testing.T) {
	profile, err := LoadProfile(filepath.Join(t.TempDir(), DefaultProfileFile))
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/ptitSeb/box64.git", profile.Box64.Repo)
	assert.Equal(t, "/data/data/com.termux/files/usr/local", profile.Box64.Prefix)
	assert.Equal(t, 2, profile.Box64.Jobs)
	assert.Contains(t, profile.Packages, "cmake")
}

func TestLoadProfile_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProfileFile)
	content := `box64:
  platform: snapdragon-8gen2
  jobs: 4
packages:
  - git
  - cmake
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "snapdragon-8gen2", profile.Box64.Platform)
	assert.Equal(t, 4, profile.Box64.Jobs)
	assert.Equal(t, []string{"git", "cmake"}, profile.Packages)
	// untouched fields keep defaults
	assert.Equal(t, "https://github.com/ptitSeb/box64.git", profile.Box64.Repo)
	assert.Equal(t, "wine-container", profile.Wine.PrefixDir)
}

func TestLoadProfile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProfileFile)
	require.NoError(t, os.WriteFile(path, []byte("box64: [not a mapping"), 0600))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}
