package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediaprep/internal/config"
	"github.com/vmunix/mediaprep/internal/convert"
	"github.com/vmunix/mediaprep/internal/history"
	"github.com/vmunix/mediaprep/internal/names"
	"github.com/vmunix/mediaprep/internal/pipeline"
	"github.com/vmunix/mediaprep/internal/transcode"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert the input tree and organize the output tree",
	Long: `Run every stage: scan the input tree, probe the encoder, convert videos and
images, convert names and organize the output tree.

Files that fail to convert are logged and skipped; they do not change the exit
status. Scan and organize errors stop the run with exit status 1.

Examples:
  mediaprep run
  mediaprep run -i ~/Pictures/raw -o ~/Pictures/out
  mediaprep run --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runPipelineCmd,
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Organize the output tree without converting",
	Long: `Run only the name conversion, cleanup, grouping, numbering and sweep stages on
the output tree. Files other than .mp4 and .jpg are deleted.`,
	Args: cobra.NoArgs,
	RunE: runOrganizeCmd,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(organizeCmd)
}

func runPipelineCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, closeRec := openRecorder(cfg, logger)
	defer closeRec()

	runner, err := newRunner(cfg, transcode.NewFFmpeg(cfg.Video.FFmpeg), rec, logger)
	if err != nil {
		return err
	}

	st, err := runner.Run(ctx)
	printStats(cmd.OutOrStdout(), st)
	return err
}

func runOrganizeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := newRunner(cfg, transcode.NewFFmpeg(cfg.Video.FFmpeg), nil, logger)
	if err != nil {
		return err
	}

	st, err := runner.Organize(ctx)
	printStats(cmd.OutOrStdout(), st)
	return err
}

// newRunner maps the configuration onto a pipeline runner.
func newRunner(cfg *config.Config, t transcode.Transcoder, rec history.Recorder, logger *slog.Logger) (*pipeline.Runner, error) {
	pc, err := pipelineConfig(cfg)
	if err != nil {
		return nil, err
	}
	tr, err := names.NewTransliterator(cfg.Names.Profile)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(pc, t, tr, rec, logger), nil
}

func pipelineConfig(cfg *config.Config) (pipeline.Config, error) {
	var pc pipeline.Config

	if cfg.Video.Encoder != "" {
		e, err := transcode.ParseEncoder(cfg.Video.Encoder)
		if err != nil {
			return pc, fmt.Errorf("video.encoder: %w", err)
		}
		pc.Encoder = e
	}
	videoNaming, err := convert.ParseNaming(cfg.Video.Naming)
	if err != nil {
		return pc, fmt.Errorf("video.naming: %w", err)
	}
	imageNaming, err := convert.ParseNaming(cfg.Image.Naming)
	if err != nil {
		return pc, fmt.Errorf("image.naming: %w", err)
	}

	pc.InputRoot = cfg.Paths.Input
	pc.OutputRoot = cfg.Paths.Output
	pc.Quality = cfg.Video.Quality
	pc.MaxDimension = cfg.Video.MaxDimension
	pc.AudioCodec = cfg.Video.AudioCodec
	pc.AudioBitrate = cfg.Video.AudioBitrate
	pc.VideoNaming = videoNaming
	pc.ImageNaming = imageNaming
	pc.AutoOrient = cfg.Image.AutoOrient
	pc.JPEG = convert.JPEGOptions{
		Quality:     cfg.Image.Quality,
		Optimize:    cfg.Image.Optimize,
		Progressive: cfg.Image.Progressive,
	}
	pc.Workers = cfg.Convert.Workers
	return pc, nil
}

// openRecorder opens the run ledger. A ledger that cannot be opened is logged and replaced
// by a no-op recorder; it never stops a run.
func openRecorder(cfg *config.Config, logger *slog.Logger) (history.Recorder, func()) {
	if !cfg.History.Enabled {
		return history.Nop{}, func() {}
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("run ledger disabled", "path", cfg.History.Path, "error", err)
		return history.Nop{}, func() {}
	}
	return store, func() { _ = store.Close() }
}

func printStats(w io.Writer, st pipeline.Stats) {
	if st.Encoder != "" {
		fmt.Fprintf(w, "Encoder:    %s\n", st.Encoder)
	}
	if st.Videos+st.Images > 0 {
		fmt.Fprintf(w, "Scanned:    %d videos, %d images\n", st.Videos, st.Images)
		fmt.Fprintf(w, "Converted:  %d (failed %d", st.Converted, st.Failed)
		if st.Skipped > 0 {
			fmt.Fprintf(w, ", skipped %d", st.Skipped)
		}
		fmt.Fprintln(w, ")")
	}
	fmt.Fprintf(w, "Renamed:    %d names converted, %d files numbered\n", st.Retitled, st.Renamed)
	fmt.Fprintf(w, "Cleaned:    %d files deleted, %d empty folders removed\n", st.Deleted, st.Removed)
	if len(st.Groups) > 0 {
		fmt.Fprintf(w, "Groups:     %s\n", strings.Join(st.Groups, ", "))
	}
}
