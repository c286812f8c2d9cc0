//go:build libjpeg

package convert

import (
	"image"
	"io"

	"github.com/pixiv/go-libjpeg/jpeg"
)

const jpegExtendedModes = true

func encodeJPEG(w io.Writer, img image.Image, opts JPEGOptions) error {
	return jpeg.Encode(w, img, &jpeg.EncoderOptions{
		Quality:         opts.Quality,
		OptimizeCoding:  opts.Optimize,
		ProgressiveMode: opts.Progressive,
	})
}
