// Package media classifies files by extension and scans input trees for convertible media.
package media

import (
	"path/filepath"
	"strings"
)

// Kind is the class of a media file.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// VideoExtensions lists the video formats accepted by the scanner (lowercase, no dot).
var VideoExtensions = []string{"mp4", "avi", "mov", "wmv", "flv", "mpeg", "mpg", "m4v", "webm", "mkv"}

// ImageExtensions lists the image formats accepted by the scanner (lowercase, no dot).
var ImageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "ico", "webp"}

// Extensions of the normalized output tree.
const (
	VideoOutputExt = ".mp4"
	ImageOutputExt = ".jpg"
)

var kinds = buildKinds()

func buildKinds() map[string]Kind {
	m := make(map[string]Kind, len(VideoExtensions)+len(ImageExtensions))
	for _, ext := range VideoExtensions {
		m["."+ext] = KindVideo
	}
	for _, ext := range ImageExtensions {
		m["."+ext] = KindImage
	}
	return m
}

// KindOf classifies path by its extension, ignoring case.
func KindOf(path string) Kind {
	return kinds[strings.ToLower(filepath.Ext(path))]
}

// IsVideoFile reports whether path has a video extension.
func IsVideoFile(path string) bool {
	return KindOf(path) == KindVideo
}

// IsImageFile reports whether path has an image extension.
func IsImageFile(path string) bool {
	return KindOf(path) == KindImage
}

// IsOutputFile reports whether path already has one of the normalized output extensions.
func IsOutputFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == VideoOutputExt || ext == ImageOutputExt
}
