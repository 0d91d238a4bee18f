// Package config holds the runtime settings of the viewer. Renderer limits
// are build-time constants in package render and are not configurable
// here.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configurable paths and viewer settings.
type Config struct {
	// Paths
	WAD    string `json:"wad"`
	Output string `json:"output"` // snapshot path for headless runs

	// Viewer settings
	Level       string `json:"level"`
	Scale       int    `json:"scale"`        // window and snapshot scale
	Frames      int    `json:"frames"`       // frames to render headless
	CacheBlocks int    `json:"cache_blocks"` // flash blocks cached
	ExtraLight  int    `json:"extra_light"`
	Verbose     bool   `json:"verbose"`
}

// Default returns the settings used when there is no config file.
func Default() Config {
	return Config{
		WAD:         "doom1.wad",
		Level:       "E1M1",
		Scale:       4,
		Frames:      1,
		CacheBlocks: 8,
	}
}

// Load reads a JSON config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// BaseDir returns the directory relative paths in the config file at path
// resolve against, or "" when there is no config file.
func BaseDir(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	WAD     string
	Level   string
	Output  string
	Scale   int
	Frames  int
	Verbose bool
}

// Resolve fills in anything unset and applies flag overrides. Paths from
// the config file are resolved against baseDir, the config file's
// directory; paths given as flags are left relative to the working
// directory.
func (c *Config) Resolve(flags Flags, baseDir string) {
	def := Default()
	if c.WAD == "" {
		c.WAD = def.WAD
	}
	if c.Level == "" {
		c.Level = def.Level
	}
	if c.Scale <= 0 {
		c.Scale = def.Scale
	}
	if c.Frames <= 0 {
		c.Frames = def.Frames
	}
	if c.CacheBlocks <= 0 {
		c.CacheBlocks = def.CacheBlocks
	}

	if baseDir != "" {
		if !filepath.IsAbs(c.WAD) {
			c.WAD = filepath.Join(baseDir, c.WAD)
		}
		if c.Output != "" && !filepath.IsAbs(c.Output) {
			c.Output = filepath.Join(baseDir, c.Output)
		}
	}

	// CLI flags override config file
	if flags.WAD != "" {
		c.WAD = flags.WAD
	}
	if flags.Level != "" {
		c.Level = flags.Level
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Verbose {
		c.Verbose = true
	}
}
