package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults loaded from the config file. Command-line
// flags override anything set here.
type Config struct {
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	Format     string `toml:"format"`
	Detailed   bool   `toml:"detailed"`
	Tombstoned bool   `toml:"tombstoned"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// defaultConfig returns the built-in defaults used when no config file
// exists or a field is left unset.
func defaultConfig() Config {
	return Config{
		Render: RenderConfig{Format: "svg"},
		Serve:  ServeConfig{Addr: "localhost:8080"},
	}
}

// configPath returns the config file location using XDG standard
// (~/.config/irgraph/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file and merges it over the built-in
// defaults. A missing file is not an error; a malformed file is.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Render.Format == "" {
		cfg.Render.Format = "svg"
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = "localhost:8080"
	}
	return cfg, nil
}
