package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"shoreline/internal/maps"
	"shoreline/internal/retile"
)

// Config holds all settings for the shoreline tools.
type Config struct {
	CatalogDir string `yaml:"catalog_dir"`
	MapsDir    string `yaml:"maps_dir"`

	// Classification
	EdgePolicy maps.EdgePolicy `yaml:"edge_policy"` // land, water or clamp
	Diagonals  bool            `yaml:"diagonals"`
	Seed       int64           `yaml:"seed"`
	Workers    int             `yaml:"workers"` // 0 = GOMAXPROCS

	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	SSH     SSHConfig     `yaml:"ssh"`
	Preview PreviewConfig `yaml:"preview"`
}

// SSHConfig configures the preview server listener.
type SSHConfig struct {
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
}

// PreviewConfig configures the terminal and PNG previews.
type PreviewConfig struct {
	DefaultMap string `yaml:"default_map"`
	PNGCell    int    `yaml:"png_cell"` // pixels per tile
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		CatalogDir: "assets/catalog",
		MapsDir:    "assets/maps",
		EdgePolicy: maps.EdgeLand,
		Diagonals:  true,
		Seed:       1,
		LogLevel:   "info",
		SSH: SSHConfig{
			Addr:    ":2222",
			HostKey: "host_key",
		},
		Preview: PreviewConfig{
			PNGCell: 16,
		},
	}
}

// Load loads config from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Preview.PNGCell < 4 {
		return fmt.Errorf("preview.png_cell must be >= 4, got %d", c.Preview.PNGCell)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// RetileOptions returns the classification settings as retile options.
func (c Config) RetileOptions() retile.Options {
	return retile.Options{
		Policy:    c.EdgePolicy,
		Diagonals: c.Diagonals,
		Seed:      c.Seed,
		Workers:   c.Workers,
	}
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return l, nil
}

// SetupLogging installs the default slog text logger at the configured level.
func (c Config) SetupLogging() {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
