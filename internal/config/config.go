//go:build !tinygo

// Package config loads the host runner settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
)

// RelPath is the config file location under the XDG config directory.
const RelPath = "pocketos/config.toml"

// Config holds the host settings. Command-line flags override it.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Display DisplayConfig `toml:"display"`
	Flash   FlashConfig   `toml:"flash"`
	Network NetworkConfig `toml:"network"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DisplayConfig struct {
	Scale int `toml:"scale"`
	Hz    int `toml:"hz"`
}

type FlashConfig struct {
	// Path of the flash image; empty uses the XDG data directory.
	Path string `toml:"path"`
}

type NetworkConfig struct {
	Offline bool   `toml:"offline"`
	OTAAddr string `toml:"ota_addr"`
}

func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		Display: DisplayConfig{Scale: 4, Hz: 100},
		Network: NetworkConfig{OTAAddr: ":8080"},
	}
}

// Path resolves the default config file path.
func Path() (string, error) {
	p, err := xdg.ConfigFile(RelPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return p, nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	conf := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return conf, nil
	}
	if err != nil {
		return conf, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parse config %q: %w", path, err)
	}
	return conf, nil
}
