package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xlttj/fridamgr/pkg/logging"

	"gopkg.in/yaml.v3"
)

// ConfigDirName is the per-user directory under the home directory.
const ConfigDirName = ".fridamgr"

// ConfigFileName is the YAML file looked up inside ConfigDirName.
const ConfigFileName = "config.yaml"

// ErrInvalidPort is wrapped by Validate for malformed port values.
var ErrInvalidPort = errors.New("invalid port")

// expandHomeDir replaces the leading ~ with the user's home directory
func expandHomeDir(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, path[1:]), nil
}

// DefaultConfigPath returns ~/.fridamgr/config.yaml.
func DefaultConfigPath() (string, error) {
	return expandHomeDir(filepath.Join("~", ConfigDirName, ConfigFileName))
}

// LoadFile reads a YAML config file on top of the defaults. Keys absent from
// the file keep their default value.
func LoadFile(path string) (Config, error) {
	expandedPath, err := expandHomeDir(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", expandedPath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config file %s: %w", expandedPath, err)
	}
	cfg = cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed for %s: %w", expandedPath, err)
	}

	logging.LogDebug("Loaded config from %s", expandedPath)
	return cfg, nil
}

// Load resolves the effective Config: an explicit path must exist, otherwise
// the default file is used when present and the built-in defaults when not.
func Load(path string) (Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		logging.LogDebug("No home directory, using built-in defaults: %v", err)
		return Default(), nil
	}
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		logging.LogDebug("Config file %s does not exist, using built-in defaults", defaultPath)
		return Default(), nil
	} else if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file %s: %w", defaultPath, err)
	}
	return LoadFile(defaultPath)
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	expandedPath, err := expandHomeDir(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(expandedPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", expandedPath, err)
	}
	return nil
}

// Validate checks that both ports are numbers in 1..65535.
func (c Config) Validate() error {
	if err := validatePort("device_port", c.DevicePort); err != nil {
		return err
	}
	return validatePort("host_port", c.HostPort)
}

func validatePort(field, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s %q is not a number", ErrInvalidPort, field, value)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %s %d must be between 1 and 65535", ErrInvalidPort, field, port)
	}
	return nil
}
