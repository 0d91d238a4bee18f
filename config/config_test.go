package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"level": "E1M2", "extra_light": 2}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "E1M2", cfg.Level)
	assert.Equal(t, 2, cfg.ExtraLight)
	assert.Equal(t, Default().WAD, cfg.WAD)
	assert.Equal(t, 4, cfg.Scale)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse")
}

func TestResolve(t *testing.T) {
	cfg := Config{Scale: -1, Output: "shot.tga"}
	cfg.Resolve(Flags{Level: "MAP01", Frames: 3}, "/data")

	assert.Equal(t, "/data/doom1.wad", cfg.WAD)
	assert.Equal(t, "/data/shot.tga", cfg.Output)
	assert.Equal(t, "MAP01", cfg.Level)
	assert.Equal(t, 3, cfg.Frames)
	assert.Equal(t, 4, cfg.Scale)
	assert.Equal(t, 8, cfg.CacheBlocks)
	assert.False(t, cfg.Verbose)

	abs := Config{WAD: "/abs/doom2.wad"}
	abs.Resolve(Flags{Verbose: true}, "/data")
	assert.Equal(t, "/abs/doom2.wad", abs.WAD)
	assert.True(t, abs.Verbose)
}

func TestResolveKeepsFlagPathsRelative(t *testing.T) {
	cfg := Config{WAD: "freedoom.wad", Output: "shot.tga"}
	cfg.Resolve(Flags{WAD: "local.wad", Output: "out.webp"}, "/etc/doomview")
	assert.Equal(t, "local.wad", cfg.WAD)
	assert.Equal(t, "out.webp", cfg.Output)

	cfg = Config{}
	cfg.Resolve(Flags{}, "")
	assert.Equal(t, "doom1.wad", cfg.WAD)
}

func TestLoadResolvesAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"wad": "wads/doom2.wad"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{}, BaseDir(path))
	assert.Equal(t, filepath.Join(dir, "wads", "doom2.wad"), cfg.WAD)
}
