//go:build !libjpeg

package convert

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// jpegExtendedModes reports whether Optimize and Progressive are honored.
const jpegExtendedModes = false

func encodeJPEG(w io.Writer, img image.Image, opts JPEGOptions) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
}
