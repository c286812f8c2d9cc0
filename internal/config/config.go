// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Paths   PathsConfig   `toml:"paths"`
	Log     LogConfig     `toml:"log"`
	Video   VideoConfig   `toml:"video"`
	Image   ImageConfig   `toml:"image"`
	Names   NamesConfig   `toml:"names"`
	Convert ConvertConfig `toml:"convert"`
	History HistoryConfig `toml:"history"`
}

type PathsConfig struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type VideoConfig struct {
	FFmpeg       string `toml:"ffmpeg"`
	Encoder      string `toml:"encoder"` // Empty probes the transcoder
	Naming       string `toml:"naming"`
	Quality      int    `toml:"quality"`
	MaxDimension int    `toml:"max_dimension"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
}

type ImageConfig struct {
	Naming      string `toml:"naming"`
	Quality     int    `toml:"quality"`
	Optimize    bool   `toml:"optimize"`
	Progressive bool   `toml:"progressive"`
	AutoOrient  bool   `toml:"auto_orient"`
}

type NamesConfig struct {
	Profile string `toml:"profile"`
}

type ConvertConfig struct {
	Workers int `toml:"workers"`
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Defaults returns the built-in configuration used when no file is found.
func Defaults() *Config {
	return &Config{
		Paths: PathsConfig{Input: "_original", Output: "_converted"},
		Log:   LogConfig{Level: "info"},
		Video: VideoConfig{
			FFmpeg:       "ffmpeg",
			Naming:       "append",
			Quality:      21,
			MaxDimension: 1920,
			AudioCodec:   "aac",
			AudioBitrate: "128k",
		},
		Image: ImageConfig{
			Naming:      "append",
			Quality:     85,
			Optimize:    true,
			Progressive: true,
			AutoOrient:  true,
		},
		Names:   NamesConfig{Profile: "s2tw"},
		Convert: ConvertConfig{Workers: 1},
		History: HistoryConfig{Enabled: true, Path: ".mediaprep/history.db"},
	}
}

// Load reads, parses and validates the configuration file.
// Problems are reported as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file on top of Defaults.
// Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	cfg := Defaults()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults restores defaults for keys explicitly set to an empty value.
func (c *Config) applyDefaults() {
	d := Defaults()
	if c.Paths.Input == "" {
		c.Paths.Input = d.Paths.Input
	}
	if c.Paths.Output == "" {
		c.Paths.Output = d.Paths.Output
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Video.FFmpeg == "" {
		c.Video.FFmpeg = d.Video.FFmpeg
	}
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = d.Video.AudioCodec
	}
	if c.Video.AudioBitrate == "" {
		c.Video.AudioBitrate = d.Video.AudioBitrate
	}
	if c.Names.Profile == "" {
		c.Names.Profile = d.Names.Profile
	}
	if c.History.Path == "" {
		c.History.Path = d.History.Path
	}
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references in content. Unset variables without a
// default are left in place and returned in missing; an empty value counts as unset for the
// :- and :? forms. Full-line comments are copied through untouched.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		var m []string
		lines[i], m = substituteLine(line)
		missing = append(missing, m...)
	}
	return strings.Join(lines, ""), missing
}

func substituteLine(line string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}
