// Package convert turns scanned media into the normalized output tree: MP4 videos through the
// transcoder and JPEG images through the image codec, mirroring the input directory layout.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/mediaprep/internal/media"
)

// Naming selects how an output file name is derived from its source name.
type Naming string

const (
	// NamingAppend keeps the source name and appends the target extension: clip.mov -> clip.mov.mp4.
	NamingAppend Naming = "append"
	// NamingReplace swaps the source extension for the target one: clip.mov -> clip.mp4.
	NamingReplace Naming = "replace"
)

// ParseNaming validates a naming mode. An empty string selects NamingAppend.
func ParseNaming(s string) (Naming, error) {
	switch n := Naming(strings.ToLower(strings.TrimSpace(s))); n {
	case "":
		return NamingAppend, nil
	case NamingAppend, NamingReplace:
		return n, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNaming, s)
	}
}

// OutputName derives the output file name for source name using ext (with leading dot).
func OutputName(name, ext string, naming Naming) string {
	if naming == NamingReplace {
		return strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}
	return name + ext
}

// OutputPath mirrors rel (relative to the input root) under outRoot with the output name.
func OutputPath(outRoot, rel, ext string, naming Naming) string {
	return filepath.Join(outRoot, filepath.Dir(rel), OutputName(filepath.Base(rel), ext, naming))
}

// Result is the outcome of one file conversion.
type Result struct {
	Source string
	Output string
	Err    error
}

// Report summarizes a conversion batch.
type Report struct {
	Converted int
	Failed    int
	Skipped   int // Not started because the context was canceled
	Results   []Result
}

// Failures returns the results that carry an error.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

type job struct {
	file   media.File
	output string
	err    error // Set when the job must not run
}

// plan maps every file to its output path. A second source mapping onto an output already
// claimed gets ErrOutputCollision instead of silently replacing the first.
func plan(files []media.File, outRoot, ext string, naming Naming) []job {
	jobs := make([]job, len(files))
	claimed := make(map[string]string, len(files))
	for i, f := range files {
		out := OutputPath(outRoot, f.RelPath, ext, naming)
		jobs[i] = job{file: f, output: out}
		if prev, ok := claimed[out]; ok {
			jobs[i].err = fmt.Errorf("%w: %s already produced by %s", ErrOutputCollision, out, prev)
			continue
		}
		claimed[out] = f.Path
	}
	return jobs
}

// convertFunc converts a single source to output.
type convertFunc func(ctx context.Context, src, output string) error

// runBatch executes jobs with at most workers conversions in flight. Per-file errors are
// logged and recorded; they never stop the batch.
func runBatch(ctx context.Context, jobs []job, workers int, logger *slog.Logger, fn convertFunc) Report {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(jobs))
	ran := make([]bool, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = convertOne(ctx, j, logger, fn)
			ran[i] = true
			return nil
		})
	}
	_ = g.Wait()

	var rep Report
	for i := range jobs {
		if !ran[i] {
			rep.Skipped++
			continue
		}
		res := results[i]
		if res.Err != nil {
			rep.Failed++
		} else {
			rep.Converted++
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}

func convertOne(ctx context.Context, j job, logger *slog.Logger, fn convertFunc) Result {
	res := Result{Source: j.file.Path, Output: j.output, Err: j.err}
	if res.Err == nil {
		logger.Info("converting", "source", j.file.Path, "output", j.output)
		if err := os.MkdirAll(filepath.Dir(j.output), 0755); err != nil {
			res.Err = fmt.Errorf("create directory: %w", err)
		} else {
			res.Err = fn(ctx, j.file.Path, j.output)
		}
	}
	if res.Err != nil {
		logger.Error("conversion failed", "source", j.file.Path, "error", res.Err)
	}
	return res
}
