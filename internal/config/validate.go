package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validNaming = map[string]bool{
	"append": true, "replace": true,
}

var validEncoders = map[string]bool{
	"": true, "h264_nvenc": true, "h264_qsv": true, "h264_amf": true, "libx264": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	// Video
	if !validNaming[c.Video.Naming] {
		errs = append(errs, fmt.Sprintf("video.naming: must be one of append, replace; got %q", c.Video.Naming))
	}
	if !validEncoders[c.Video.Encoder] {
		errs = append(errs, fmt.Sprintf("video.encoder: must be empty or one of h264_nvenc, h264_qsv, h264_amf, libx264; got %q", c.Video.Encoder))
	}
	if c.Video.Quality < 0 || c.Video.Quality > 51 {
		errs = append(errs, fmt.Sprintf("video.quality: must be between 0 and 51, got %d", c.Video.Quality))
	}
	if c.Video.MaxDimension < 0 {
		errs = append(errs, fmt.Sprintf("video.max_dimension: must not be negative, got %d", c.Video.MaxDimension))
	}

	// Image
	if !validNaming[c.Image.Naming] {
		errs = append(errs, fmt.Sprintf("image.naming: must be one of append, replace; got %q", c.Image.Naming))
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		errs = append(errs, fmt.Sprintf("image.quality: must be between 1 and 100, got %d", c.Image.Quality))
	}

	if c.Convert.Workers < 1 {
		errs = append(errs, fmt.Sprintf("convert.workers: must be at least 1, got %d", c.Convert.Workers))
	}

	// Paths
	in, out := absOrSelf(c.Paths.Input), absOrSelf(c.Paths.Output)
	switch {
	case in == out:
		errs = append(errs, fmt.Sprintf("paths.output: must differ from paths.input (%q)", c.Paths.Input))
	case within(in, out):
		errs = append(errs, fmt.Sprintf("paths.output: %q must not be inside paths.input %q", c.Paths.Output, c.Paths.Input))
	case within(out, in):
		errs = append(errs, fmt.Sprintf("paths.input: %q must not be inside paths.output %q", c.Paths.Input, c.Paths.Output))
	}

	if c.History.Enabled {
		if hist := absOrSelf(c.History.Path); hist == out || within(out, hist) {
			errs = append(errs, fmt.Sprintf("history.path: %q must not be inside paths.output %q", c.History.Path, c.Paths.Output))
		}
	}

	return errs
}

func absOrSelf(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// within reports whether path lies strictly below dir. Both must be absolute and clean.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
