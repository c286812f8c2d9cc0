// Package transcode drives the external transcoder: encoder capability probing and
// per-file MP4 conversion.
package transcode

import (
	"context"
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

//go:generate mockgen -destination=mocks/transcoder.go -package=mocks . Transcoder

// Transcoder is the external media transcoder.
type Transcoder interface {
	// Encoders returns the transcoder's list of compiled-in encoders as text.
	Encoders(ctx context.Context) (string, error)

	// Transcode converts in to out using args. out is overwritten if it exists.
	Transcode(ctx context.Context, in, out string, args Args) error
}

// Output parameters shared by every conversion.
const (
	DefaultAudioCodec   = "aac"
	DefaultAudioBitrate = "128k"
	DefaultQuality      = 21
	DefaultMaxDimension = 1920
	FastStart           = "+faststart"
)

// Args is the parameter set for a single conversion.
type Args struct {
	VideoCodec   Encoder
	Quality      map[string]string // Encoder-specific quality options
	AudioCodec   string
	AudioBitrate string
	MovFlags     string
	Filter       string // Video filter graph (-vf)
}

// NewArgs builds the conversion parameters for encoder e.
func NewArgs(e Encoder, quality, maxDimension int) Args {
	return Args{
		VideoCodec:   e,
		Quality:      e.QualityArgs(quality),
		AudioCodec:   DefaultAudioCodec,
		AudioBitrate: DefaultAudioBitrate,
		MovFlags:     FastStart,
		Filter:       ScaleFilter(maxDimension),
	}
}

// ScaleFilter returns a filter that fits the frame inside a maxDimension square, keeping the
// aspect ratio, and rounds width and height down to even values. maxDimension <= 0 only
// enforces even dimensions.
func ScaleFilter(maxDimension int) string {
	even := "scale=trunc(iw/2)*2:trunc(ih/2)*2"
	if maxDimension <= 0 {
		return even
	}
	return fmt.Sprintf("scale='min(%d,iw)':'min(%d,ih)':force_original_aspect_ratio=decrease,%s",
		maxDimension, maxDimension, even)
}

// KwArgs converts args into ffmpeg-go output options.
func (a Args) KwArgs() ffmpeg.KwArgs {
	kw := ffmpeg.KwArgs{
		"c:v":      string(a.VideoCodec),
		"c:a":      a.AudioCodec,
		"b:a":      a.AudioBitrate,
		"movflags": a.MovFlags,
	}
	if a.Filter != "" {
		kw["vf"] = a.Filter
	}
	for k, v := range a.Quality {
		kw[k] = v
	}
	return kw
}
