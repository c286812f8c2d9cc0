package convert

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"

	// Decoders beyond the jpeg/png/gif/bmp/tiff set registered by imaging.
	_ "github.com/biessek/golang-ico"
	_ "golang.org/x/image/webp"

	"github.com/vmunix/mediaprep/internal/media"
)

// Default JPEG settings.
const (
	DefaultJPEGQuality = 85
)

// JPEGOptions controls JPEG encoding.
type JPEGOptions struct {
	Quality     int
	Optimize    bool // Optimized Huffman tables
	Progressive bool // Progressive scans
}

// ignoredFlags lists the requested modes the compiled encoder cannot produce.
func (o JPEGOptions) ignoredFlags() []string {
	if jpegExtendedModes {
		return nil
	}
	var flags []string
	if o.Optimize {
		flags = append(flags, "optimize")
	}
	if o.Progressive {
		flags = append(flags, "progressive")
	}
	return flags
}

// ImageOptions configures an ImageConverter.
type ImageOptions struct {
	OutputRoot string
	Naming     Naming
	Workers    int
	AutoOrient bool // Apply EXIF orientation before re-encoding
	JPEG       JPEGOptions
}

// ImageConverter re-encodes images as JPEG.
type ImageConverter struct {
	opts   ImageOptions
	logger *slog.Logger
}

// NewImageConverter creates an image converter.
func NewImageConverter(opts ImageOptions, logger *slog.Logger) *ImageConverter {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.JPEG.Quality == 0 {
		opts.JPEG.Quality = DefaultJPEGQuality
	}
	if ignored := opts.JPEG.ignoredFlags(); len(ignored) > 0 {
		logger.Warn("jpeg flags not supported by this build, writing baseline scans",
			"ignored", ignored, "requires", "-tags libjpeg")
	}
	return &ImageConverter{opts: opts, logger: logger}
}

// Convert re-encodes every image in files. Failures are reported, not returned.
func (c *ImageConverter) Convert(ctx context.Context, files []media.File) Report {
	jobs := plan(files, c.opts.OutputRoot, media.ImageOutputExt, c.opts.Naming)
	return runBatch(ctx, jobs, c.opts.Workers, c.logger, func(_ context.Context, src, out string) error {
		return c.ConvertFile(src, out)
	})
}

// ConvertFile decodes src, drops alpha and palette, and writes a JPEG to dst.
// A partially written dst is removed on failure.
func (c *ImageConverter) ConvertFile(src, dst string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(c.opts.AutoOrient))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: create output: %v", ErrEncodeFailed, err)
	}

	w := bufio.NewWriter(f)
	err = encodeJPEG(w, ToRGB(img), c.opts.JPEG)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return nil
}

// ToRGB returns an opaque copy of img. Color channels are kept as-is and alpha is
// discarded, so palette and transparent images become plain 3-channel color.
func ToRGB(img image.Image) *image.RGBA {
	n := imaging.Clone(img)
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xff
	}
	// Fully opaque NRGBA and RGBA share the same memory layout.
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}
