package convert

import "errors"

var (
	// ErrUnknownNaming indicates an unsupported output naming mode.
	ErrUnknownNaming = errors.New("unknown naming mode")

	// ErrOutputCollision indicates two sources map onto the same output file.
	ErrOutputCollision = errors.New("output path already claimed")

	// ErrDecodeFailed indicates the source image could not be decoded.
	ErrDecodeFailed = errors.New("failed to decode image")

	// ErrEncodeFailed indicates the JPEG could not be written.
	ErrEncodeFailed = errors.New("failed to encode image")
)
