package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediaprep/internal/transcode"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show the video encoder a run would use",
	Long: `Query ffmpeg for its encoders and print the one a run would select:
h264_nvenc, h264_qsv, h264_amf, or libx264 when no hardware encoder is present.
A configured video.encoder is reported without probing.`,
	Args: cobra.NoArgs,
	RunE: runProbeCmd,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	var e transcode.Encoder
	source := "probed"
	if cfg.Video.Encoder != "" {
		if e, err = transcode.ParseEncoder(cfg.Video.Encoder); err != nil {
			return err
		}
		source = "configured"
	} else {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		e = transcode.Probe(ctx, transcode.NewFFmpeg(cfg.Video.FFmpeg), logger)
	}

	printEncoder(cmd.OutOrStdout(), e, source, cfg.Video.Quality)
	return nil
}

func printEncoder(w io.Writer, e transcode.Encoder, source string, quality int) {
	var opts []string
	for k, v := range e.QualityArgs(quality) {
		opts = append(opts, k+"="+v)
	}
	sort.Strings(opts)

	fmt.Fprintf(w, "Encoder:  %s (%s)\n", e, source)
	fmt.Fprintf(w, "Vendor:   %s\n", e.Vendor())
	fmt.Fprintf(w, "Hardware: %t\n", e.Hardware())
	fmt.Fprintf(w, "Quality:  %s\n", strings.Join(opts, " "))
}
