package transcode

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleFilter(t *testing.T) {
	assert.Equal(t,
		"scale='min(1920,iw)':'min(1920,ih)':force_original_aspect_ratio=decrease,scale=trunc(iw/2)*2:trunc(ih/2)*2",
		ScaleFilter(1920))
	assert.Equal(t, "scale=trunc(iw/2)*2:trunc(ih/2)*2", ScaleFilter(0))
}

func TestNewArgs(t *testing.T) {
	args := NewArgs(EncoderNVENC, 21, 1280)

	kw := args.KwArgs()
	assert.Equal(t, "h264_nvenc", kw["c:v"])
	assert.Equal(t, "aac", kw["c:a"])
	assert.Equal(t, "128k", kw["b:a"])
	assert.Equal(t, "+faststart", kw["movflags"])
	assert.Equal(t, "vbr", kw["rc"])
	assert.Equal(t, "21", kw["cq"])
	assert.Contains(t, kw["vf"], "min(1280,iw)")
}

// flagValue returns the argument following flag.
func flagValue(args []string, flag string) (string, bool) {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return "", false
	}
	return args[i+1], true
}

func TestBuildArgs(t *testing.T) {
	args := BuildArgs("/in/clip.mov", "/out/clip.mov.mp4", NewArgs(EncoderX264, 21, 1920))

	in, ok := flagValue(args, "-i")
	require.True(t, ok, "missing -i in %v", args)
	assert.Equal(t, "/in/clip.mov", in)

	for flag, want := range map[string]string{
		"-c:v":      "libx264",
		"-crf":      "21",
		"-c:a":      "aac",
		"-b:a":      "128k",
		"-movflags": "+faststart",
	} {
		got, ok := flagValue(args, flag)
		require.True(t, ok, "missing %s in %v", flag, args)
		assert.Equal(t, want, got, flag)
	}

	assert.Equal(t, "/out/clip.mov.mp4", args[len(args)-1], "output path comes last")
	assert.Less(t, slices.Index(args, "-y"), slices.Index(args, "-i"), "-y is a global option")
	assert.Equal(t, slices.Index(args, "-y"), slices.LastIndex(args, "-y"), "-y appears once")
	assert.Equal(t, "-hide_banner", args[0])
	assert.Contains(t, args, "-nostdin")
}

func TestExecError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ExecError{Stderr: "frame=1\n/in/x.mov: Invalid data found when processing input\n", Err: cause}

	assert.ErrorIs(t, err, ErrTranscodeFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Invalid data found")

	bare := &ExecError{Err: cause}
	assert.Equal(t, "transcode failed: exit status 1", bare.Error())
}
