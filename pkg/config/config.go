package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the dtctool defaults, flags given on the command line win.
type Config struct {
	Mode     string
	Format   string
	Color    bool
	LogLevel string
}

type fileConfig struct {
	Mode     string `toml:"mode"`
	Format   string `toml:"format"`
	Color    bool   `toml:"color"`
	LogLevel string `toml:"log_level"`
}

func Default() Config {
	return Config{
		Mode:     "03",
		Format:   "text",
		Color:    true,
		LogLevel: "info",
	}
}

// DefaultPath is $XDG_CONFIG_HOME/godtc/config.toml or the platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "godtc", "config.toml")
}

// Load reads path on top of Default. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("mode") {
		cfg.Mode = strings.TrimSpace(raw.Mode)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("color") {
		cfg.Color = raw.Color
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}
	return cfg, nil
}
