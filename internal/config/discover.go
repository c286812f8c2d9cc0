package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Discover when no config file exists in any search location.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./mediaprep.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mediaprep", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. MEDIAPREP_CONFIG environment variable
//  2. ./mediaprep.toml (current directory)
//  3. $XDG_CONFIG_HOME/mediaprep/config.toml
//  4. /etc/mediaprep/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv("MEDIAPREP_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("MEDIAPREP_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./mediaprep.toml",
		DefaultPath(),
		"/etc/mediaprep/config.toml",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}

// Resolve loads the configuration for the command line. An explicit path wins; otherwise the
// search order of Discover applies and Defaults are used when nothing is found. The returned
// path is empty when defaults are in effect.
func Resolve(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		found, err := Discover()
		if errors.Is(err, ErrNotFound) {
			cfg := Defaults()
			if errs := cfg.Validate(); len(errs) > 0 {
				return nil, "", &ConfigError{Errors: errs}
			}
			return cfg, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
