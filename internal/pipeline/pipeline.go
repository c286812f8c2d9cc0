// Package pipeline runs the conversion and reorganization stages in order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/mediaprep/internal/convert"
	"github.com/vmunix/mediaprep/internal/history"
	"github.com/vmunix/mediaprep/internal/media"
	"github.com/vmunix/mediaprep/internal/names"
	"github.com/vmunix/mediaprep/internal/organize"
	"github.com/vmunix/mediaprep/internal/transcode"
)

// Config for a pipeline run.
type Config struct {
	InputRoot  string
	OutputRoot string

	Encoder      transcode.Encoder // Empty probes the transcoder
	Quality      int
	MaxDimension int
	AudioCodec   string
	AudioBitrate string
	VideoNaming  convert.Naming

	ImageNaming convert.Naming
	AutoOrient  bool
	JPEG        convert.JPEGOptions

	Workers int
}

// Stats aggregates the outcome of a run.
type Stats struct {
	Encoder   transcode.Encoder
	Videos    int
	Images    int
	Converted int
	Failed    int
	Skipped   int
	Renamed   int // Files numbered by the renamer
	Retitled  int // Entries renamed by the name script converter
	Deleted   int // Non-media files removed from the output tree
	Groups    []string
	Removed   int // Empty directories swept
}

// Runner wires the stages together.
type Runner struct {
	config     Config
	transcoder transcode.Transcoder
	names      *names.Converter
	recorder   history.Recorder
	logger     *slog.Logger
}

// NewRunner creates a new runner. A nil recorder disables the ledger.
func NewRunner(cfg Config, t transcode.Transcoder, tr names.Transliterator, rec history.Recorder, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = history.Nop{}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{
		config:     cfg,
		transcoder: t,
		names:      names.NewConverter(tr, logger.With("component", "names")),
		recorder:   rec,
		logger:     logger,
	}
}

// Run scans the input tree, converts every media file into the output tree and then
// reorganizes the output tree. Per-file conversion failures are counted in Stats and do not
// fail the run. Scan and reorganization errors are returned.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var st Stats
	if err := r.checkRoots(); err != nil {
		return st, err
	}

	r.logger.Info("scanning input", "root", r.config.InputRoot)
	files, err := media.Scan(r.config.InputRoot)
	if err != nil {
		return st, fmt.Errorf("scan: %w", err)
	}
	videos, images := media.Split(files)
	st.Videos, st.Images = len(videos), len(images)
	r.logger.Info("scan complete", "videos", st.Videos, "images", st.Images)

	if err := os.MkdirAll(r.config.OutputRoot, 0755); err != nil {
		return st, fmt.Errorf("create output root: %w", err)
	}

	st.Encoder = r.selectEncoder(ctx)

	run := &history.Run{
		InputRoot:  absPath(r.config.InputRoot),
		OutputRoot: absPath(r.config.OutputRoot),
		Encoder:    string(st.Encoder),
	}
	if err := r.recorder.StartRun(context.WithoutCancel(ctx), run); err != nil {
		r.logger.Warn("ledger unavailable", "error", err)
	}

	err = r.run(ctx, run, videos, images, &st)

	run.Converted, run.Failed = st.Converted, st.Failed
	run.Status = history.StatusCompleted
	if err != nil {
		run.Status = history.StatusAborted
	}
	if ferr := r.recorder.FinishRun(context.WithoutCancel(ctx), run); ferr != nil && !errors.Is(ferr, history.ErrNotStarted) {
		r.logger.Warn("ledger update failed", "error", ferr)
	}
	return st, err
}

func (r *Runner) run(ctx context.Context, run *history.Run, videos, images []media.File, st *Stats) error {
	args := transcode.NewArgs(st.Encoder, r.config.Quality, r.config.MaxDimension)
	if r.config.AudioCodec != "" {
		args.AudioCodec = r.config.AudioCodec
	}
	if r.config.AudioBitrate != "" {
		args.AudioBitrate = r.config.AudioBitrate
	}

	vc := convert.NewVideoConverter(r.transcoder, args, convert.VideoOptions{
		OutputRoot: r.config.OutputRoot,
		Naming:     r.config.VideoNaming,
		Workers:    r.config.Workers,
	}, r.logger.With("component", "video"))
	r.logger.Info("converting videos", "count", len(videos), "encoder", st.Encoder)
	r.record(ctx, run, st, vc.Convert(ctx, videos))
	if err := ctx.Err(); err != nil {
		return err
	}

	ic := convert.NewImageConverter(convert.ImageOptions{
		OutputRoot: r.config.OutputRoot,
		Naming:     r.config.ImageNaming,
		Workers:    r.config.Workers,
		AutoOrient: r.config.AutoOrient,
		JPEG:       r.config.JPEG,
	}, r.logger.With("component", "image"))
	r.logger.Info("converting images", "count", len(images))
	r.record(ctx, run, st, ic.Convert(ctx, images))
	if err := ctx.Err(); err != nil {
		return err
	}

	r.logger.Info("conversion complete", "converted", st.Converted, "failed", st.Failed)

	if err := r.organize(ctx, st); err != nil {
		return err
	}
	for _, g := range st.Groups {
		r.add(ctx, &history.Entry{RunID: run.ID, Event: history.EventGrouped, Path: g})
	}
	return nil
}

// Organize runs the reorganization stages on the output tree without converting anything.
func (r *Runner) Organize(ctx context.Context) (Stats, error) {
	var st Stats
	if r.config.InputRoot != "" {
		if err := r.checkRoots(); err != nil {
			return st, err
		}
	}
	info, err := os.Stat(r.config.OutputRoot)
	if err != nil {
		return st, fmt.Errorf("output root: %w", err)
	}
	if !info.IsDir() {
		return st, fmt.Errorf("output root %s: not a directory", r.config.OutputRoot)
	}
	return st, r.organize(ctx, &st)
}

func (r *Runner) organize(ctx context.Context, st *Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.logger.Info("converting names", "root", r.config.OutputRoot)
	n, err := r.names.ConvertTree(r.config.OutputRoot)
	st.Retitled = n
	if err != nil {
		return fmt.Errorf("convert names: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	r.logger.Info("organizing output", "root", r.config.OutputRoot)
	ost, err := organize.New(r.config.OutputRoot, r.logger.With("component", "organize")).Run()
	st.Deleted = ost.Deleted
	st.Groups = ost.Groups
	st.Renamed = ost.Renamed
	st.Removed = ost.Removed
	if err != nil {
		return fmt.Errorf("organize: %w", err)
	}
	return nil
}

func (r *Runner) selectEncoder(ctx context.Context) transcode.Encoder {
	if r.config.Encoder != "" {
		r.logger.Info("using configured encoder", "encoder", r.config.Encoder)
		return r.config.Encoder
	}
	return transcode.Probe(ctx, r.transcoder, r.logger.With("component", "probe"))
}

// record folds a conversion report into st and the ledger.
func (r *Runner) record(ctx context.Context, run *history.Run, st *Stats, rep convert.Report) {
	st.Converted += rep.Converted
	st.Failed += rep.Failed
	st.Skipped += rep.Skipped
	for _, res := range rep.Results {
		e := &history.Entry{RunID: run.ID, Event: history.EventConverted, Path: res.Source, Detail: res.Output}
		if res.Err != nil {
			e.Event = history.EventFailed
			e.Detail = res.Err.Error()
		}
		r.add(ctx, e)
	}
}

func (r *Runner) add(ctx context.Context, e *history.Entry) {
	if err := r.recorder.Add(context.WithoutCancel(ctx), e); err != nil && !errors.Is(err, history.ErrNotStarted) {
		r.logger.Warn("ledger update failed", "path", e.Path, "error", err)
	}
}

func (r *Runner) checkRoots() error {
	in, out := absPath(r.config.InputRoot), absPath(r.config.OutputRoot)
	if in == out || nested(in, out) || nested(out, in) {
		return fmt.Errorf("%w: input %s, output %s", ErrOverlappingRoots, in, out)
	}
	return nil
}

// nested reports whether path lies strictly below dir.
func nested(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
