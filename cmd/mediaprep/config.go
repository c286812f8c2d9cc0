package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediaprep/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates the config file syntax, value ranges and environment variable substitution without converting anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented default config file",
	Long:  "Writes the default configuration to path (default ./mediaprep.toml). An existing file is kept unless --force is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  "Prints the configuration after file discovery, environment substitution and command-line overrides.",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	out := cmd.OutOrStdout()

	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, path, err = config.Resolve("")
		if err == nil && path == "" {
			fmt.Fprintln(out, "No config file found, using built-in defaults.")
			fmt.Fprintln(out)
		}
	} else {
		cfg, err = config.Load(path)
	}
	if path != "" {
		fmt.Fprintf(out, "Validating %s...\n\n", path)
	}

	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			configErr.Report(out)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	encoder := cfg.Video.Encoder
	if encoder == "" {
		encoder = "probe"
	}
	ledger := "disabled"
	if cfg.History.Enabled {
		ledger = cfg.History.Path
	}

	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Input:    %s\n", cfg.Paths.Input)
	fmt.Fprintf(w, "  Output:   %s\n", cfg.Paths.Output)
	fmt.Fprintf(w, "  Video:    %s, encoder %s, quality %d, max %dpx, %s naming\n",
		cfg.Video.FFmpeg, encoder, cfg.Video.Quality, cfg.Video.MaxDimension, cfg.Video.Naming)
	fmt.Fprintf(w, "  Image:    quality %d, %s naming\n", cfg.Image.Quality, cfg.Image.Naming)
	fmt.Fprintf(w, "  Names:    %s\n", cfg.Names.Profile)
	fmt.Fprintf(w, "  Workers:  %d\n", cfg.Convert.Workers)
	fmt.Fprintf(w, "  Ledger:   %s\n", ledger)
	fmt.Fprintf(w, "  Log:      %s\n", cfg.Log.Level)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := "mediaprep.toml"
	if len(args) > 0 {
		path = args[0]
	}

	if err := config.WriteDefault(path, force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return cfg.Encode(cmd.OutOrStdout())
}
