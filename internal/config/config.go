// Package config loads todo settings from defaults, a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	todoerrors "github.com/abatilo/todo/internal/errors"
	"github.com/abatilo/todo/internal/task"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	appDir     = "todo"
	dotDir     = ".todo"
	configFile = "config.toml"
)

// Config is the effective configuration.
type Config struct {
	DataDir  string   `toml:"data_dir"`
	List     string   `toml:"list"`
	Backend  string   `toml:"backend"`
	Format   string   `toml:"format"`
	LogLevel string   `toml:"log_level"`
	Defaults Defaults `toml:"defaults"`
}

// Defaults are the field values used when a new task leaves them out.
type Defaults struct {
	Category string `toml:"category"`
	Priority string `toml:"priority"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := dotDir
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, dotDir)
	}
	return &Config{
		DataDir:  dataDir,
		List:     "tasks",
		Backend:  BackendFile,
		Format:   "json",
		LogLevel: "warn",
		Defaults: Defaults{
			Category: task.CategoryPersonal,
			Priority: task.PriorityMedium,
		},
	}
}

// Load loads configuration in priority order:
// 1. Defaults
// 2. Config file (path, or the first of $XDG_CONFIG_HOME/todo/config.toml and ~/.todo/config.toml)
// 3. Environment variables
// CLI flags are applied on top by the caller, which then calls Finalize.
// Load only normalizes, so a flag can still replace a bad file or env value.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)
	cfg.normalize()
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, appDir, configFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", appDir, configFile),
			filepath.Join(home, dotDir, configFile),
		)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TODO_LIST"); v != "" {
		cfg.List = v
	}
	if v := os.Getenv("TODO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TODO_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Finalize normalizes values and validates the result. Call it again after applying flags.
func (c *Config) Finalize() error {
	c.normalize()

	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return todoerrors.InvalidBackendError{Value: c.Backend}
	}
	switch c.Format {
	case "json", "yaml", "yml":
	default:
		return todoerrors.InvalidFormatError{Value: c.Format}
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	return nil
}

func (c *Config) normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.DataDir = expandHome(strings.TrimSpace(c.DataDir))
	if strings.TrimSpace(c.List) == "" {
		c.List = "tasks"
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
