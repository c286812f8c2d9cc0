package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultBinary is the transcoder executable looked up on PATH.
const DefaultBinary = "ffmpeg"

// FFmpeg runs the ffmpeg binary.
type FFmpeg struct {
	binary string
}

var _ Transcoder = (*FFmpeg)(nil)

// NewFFmpeg creates a transcoder using binary (DefaultBinary if empty).
func NewFFmpeg(binary string) *FFmpeg {
	if binary == "" {
		binary = DefaultBinary
	}
	return &FFmpeg{binary: binary}
}

// Binary returns the executable path used for invocations.
func (f *FFmpeg) Binary() string {
	return f.binary
}

// Encoders runs "ffmpeg -hide_banner -encoders" and returns its output.
func (f *FFmpeg) Encoders(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, f.binary, "-hide_banner", "-encoders")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("list encoders: %w", err)
	}
	return string(out), nil
}

// Transcode converts in to out. The process is killed if ctx is canceled.
func (f *FFmpeg) Transcode(ctx context.Context, in, out string, args Args) error {
	cmdArgs := BuildArgs(in, out, args)
	cmd := exec.CommandContext(ctx, f.binary, cmdArgs...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExecError{Args: cmdArgs, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// globalArgs keep ffmpeg quiet and non-interactive, and overwrite existing outputs.
var globalArgs = []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}

// BuildArgs compiles the ffmpeg command line (without the binary) for one conversion.
func BuildArgs(in, out string, args Args) []string {
	compiled := ffmpeg.Input(in).
		Output(out, args.KwArgs()).
		GetArgs()
	return append(append([]string{}, globalArgs...), compiled...)
}
