package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFile is the name of the optional CLI config file inside the
// XDG config directory.
const configFile = "config.toml"

// Config holds user preferences loaded from ~/.config/diskmosaic/config.toml.
// Every field is optional; command-line flags override config values.
type Config struct {
	Mode       string            `toml:"mode,omitempty"`
	Seed       uint32            `toml:"seed,omitempty"`
	DiskRadius float64           `toml:"disk_radius,omitempty"`
	Segments   int               `toml:"segments,omitempty"`
	Colors     map[string]string `toml:"colors,omitempty"`
}

// loadConfig reads the config file if present. A missing file yields a
// zero Config; a malformed file is an error.
func loadConfig() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, nil
	}
	return loadConfigFile(filepath.Join(dir, configFile))
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
