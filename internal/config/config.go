// Package config resolves spokewith settings.
//
// Sources are layered, later ones winning: built-in defaults, the YAML file
// at $XDG_CONFIG_HOME/spokewith/config.yaml, the process environment, and a
// .env file in the working directory for variables the environment leaves
// unset. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/spokewith/internal/store"
)

const (
	// AppDir is the directory name under XDG_CONFIG_HOME and XDG_DATA_HOME.
	AppDir = "spokewith"
	// FileName is the config file name.
	FileName = "config.yaml"
	// DatabaseName is the default database file name.
	DatabaseName = "spokewith.db"
	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

// Environment variables recognised by Load.
const (
	EnvDatabase = "SPOKEWITH_DB"
	EnvDriver   = "SPOKEWITH_DRIVER"
	EnvPageSize = "SPOKEWITH_PAGE_SIZE"
)

// Config holds resolved settings.
type Config struct {
	Database string `yaml:"database,omitempty"`
	Driver   string `yaml:"driver,omitempty"`
	PageSize int    `yaml:"page_size,omitempty"`
}

// Options controls where Load looks. Zero values use the real locations.
type Options struct {
	// ConfigPath overrides the YAML file location.
	ConfigPath string
	// DotEnvPath overrides the .env location.
	DotEnvPath string
	// Getenv overrides os.Getenv.
	Getenv func(string) string
}

// Default returns the built-in settings.
func Default(getenv func(string) string) Config {
	return Config{
		Database: DefaultDatabasePath(getenv),
		Driver:   store.DriverCGO,
		PageSize: store.DefaultPageSize,
	}
}

// Path returns the config file path, honouring XDG_CONFIG_HOME.
func Path(getenv func(string) string) string {
	return xdgPath(getenv, "XDG_CONFIG_HOME", ".config", FileName)
}

// DefaultDatabasePath returns the database path used when none is configured,
// honouring XDG_DATA_HOME.
func DefaultDatabasePath(getenv func(string) string) string {
	return xdgPath(getenv, "XDG_DATA_HOME", filepath.Join(".local", "share"), DatabaseName)
}

func xdgPath(getenv func(string) string, variable, fallback, name string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	base := getenv(variable)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, AppDir, name)
}

// Load resolves the configuration from file and environment.
// A missing config file or .env file is not an error.
func Load(opts Options) (Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default(getenv)

	path := opts.ConfigPath
	if path == "" {
		path = Path(getenv)
	}
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}

	dotenvPath := opts.DotEnvPath
	if dotenvPath == "" {
		dotenvPath = DotEnvFile
	}
	dotenv, err := readDotEnv(dotenvPath)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}

	cfg.Database = ExpandTilde(cfg.Database)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.merge(file)
	return nil
}

func (c *Config) mergeEnv(lookup func(string) string) error {
	var env Config
	env.Database = lookup(EnvDatabase)
	env.Driver = lookup(EnvDriver)
	if raw := lookup(EnvPageSize); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", EnvPageSize, raw)
		}
		env.PageSize = n
	}
	c.merge(env)
	return nil
}

// merge copies the non-zero fields of o into c.
func (c *Config) merge(o Config) {
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Driver != "" {
		c.Driver = o.Driver
	}
	if o.PageSize != 0 {
		c.PageSize = o.PageSize
	}
}

// Validate reports settings the store would reject.
func (c Config) Validate() error {
	switch c.Driver {
	case store.DriverCGO, store.DriverPure:
	default:
		return fmt.Errorf("unknown driver %q (want %s or %s)", c.Driver, store.DriverCGO, store.DriverPure)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return vars, nil
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
