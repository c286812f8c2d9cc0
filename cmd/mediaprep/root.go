package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediaprep/internal/config"
)

var version = "dev"

var (
	configPath string
	inputDir   string
	outputDir  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "mediaprep",
	Short: "Convert and organize a media folder",
	Long: `mediaprep - batch media converter and organizer

Converts every video under the input tree to MP4 and every image to JPEG,
mirroring the directory layout into the output tree. The output tree is then
renamed from simplified to traditional Chinese, grouped into V (video) and
P (picture) folders and numbered sequentially.

Running without a subcommand is the same as 'mediaprep run'.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPipelineCmd,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: search MEDIAPREP_CONFIG, ./mediaprep.toml, XDG, /etc)")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "input", "i", "", "Input directory (overrides paths.input)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides paths.output)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mediaprep {{.Version}}\n")
}

// loadConfig resolves the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, path, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}

	if inputDir != "" {
		cfg.Paths.Input = inputDir
	}
	if outputDir != "" {
		cfg.Paths.Output = outputDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
