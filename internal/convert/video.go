package convert

import (
	"context"
	"log/slog"

	"github.com/vmunix/mediaprep/internal/media"
	"github.com/vmunix/mediaprep/internal/transcode"
)

// VideoOptions configures a VideoConverter.
type VideoOptions struct {
	OutputRoot string
	Naming     Naming
	Workers    int
}

// VideoConverter transcodes videos to MP4.
type VideoConverter struct {
	transcoder transcode.Transcoder
	args       transcode.Args
	opts       VideoOptions
	logger     *slog.Logger
}

// NewVideoConverter creates a converter that passes args to every transcode call.
func NewVideoConverter(t transcode.Transcoder, args transcode.Args, opts VideoOptions, logger *slog.Logger) *VideoConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoConverter{
		transcoder: t,
		args:       args,
		opts:       opts,
		logger:     logger,
	}
}

// Args returns the transcoder parameters used for each file.
func (c *VideoConverter) Args() transcode.Args {
	return c.args
}

// Convert transcodes every video in files. Failures are reported, not returned.
func (c *VideoConverter) Convert(ctx context.Context, files []media.File) Report {
	jobs := plan(files, c.opts.OutputRoot, media.VideoOutputExt, c.opts.Naming)
	return runBatch(ctx, jobs, c.opts.Workers, c.logger, func(ctx context.Context, src, out string) error {
		return c.transcoder.Transcode(ctx, src, out, c.args)
	})
}
