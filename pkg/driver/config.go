package driver

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/ConorOBrien-Foxx/Maverick/pkg/registry"
)

// ConfigFileName is looked up in the working directory when no explicit
// config path is given.
const ConfigFileName = "maverick.yml"

// Environment variables consulted by LoadConfig.
const (
	EnvPrecision   = "MAVERICK_PRECISION"
	EnvCacheDir    = "MAVERICK_CACHE"
	EnvTrace       = "MAVERICK_TRACE"
	EnvAlwaysPrint = "MAVERICK_ALWAYS_PRINT"
)

// Config holds the settings shared by the CLI and the source loader.
type Config struct {
	// Precision is the number of decimal places kept by division.
	Precision int32 `yaml:"precision"`
	// AlwaysPrint prints the final result even after `out`/`outc` wrote.
	AlwaysPrint bool `yaml:"always_print"`
	// CacheDir stores git checkouts of remote programs.
	CacheDir string `yaml:"cache_dir"`
	// Trace enables debug logging.
	Trace bool `yaml:"trace"`

	// Path is the config file that was read, if any.
	Path string `yaml:"-"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Precision: registry.DefaultPrecision,
		CacheDir:  defaultCacheDir(),
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "maverick")
	}
	return filepath.Join(os.TempDir(), "maverick-cache")
}

// RegistryConfig extracts the registry settings.
func (c Config) RegistryConfig() registry.Config {
	return registry.Config{Precision: c.Precision}
}

// Validate rejects settings no component can honour.
func (c Config) Validate() error {
	if c.Precision < 0 {
		return fmt.Errorf("config: precision must be non-negative, got %d", c.Precision)
	}
	return nil
}

// FindConfig reports the config file in dir, if present.
func FindConfig(dir string) (string, bool) {
	path := filepath.Join(dir, ConfigFileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// LoadConfig layers defaults, the config file and the environment. An empty
// path looks for ConfigFileName in the working directory; a missing default
// file is not an error, a missing explicit one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = FindConfig(wd)
		}
	}
	if path != "" {
		if err := decodeConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeConfigFile(path string, cfg *Config) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return nil
}

func applyEnv(cfg *Config) error {
	if env.Has(EnvPrecision) {
		places := env.Int(EnvPrecision, int(cfg.Precision))
		if places < 0 || places > math.MaxInt32 {
			return fmt.Errorf("config: %s out of range: %d", EnvPrecision, places)
		}
		cfg.Precision = int32(places)
	}
	cfg.CacheDir = env.Str(EnvCacheDir, cfg.CacheDir)
	if env.Has(EnvTrace) {
		cfg.Trace = env.Bool(EnvTrace)
	}
	if env.Has(EnvAlwaysPrint) {
		cfg.AlwaysPrint = env.Bool(EnvAlwaysPrint)
	}
	return nil
}
