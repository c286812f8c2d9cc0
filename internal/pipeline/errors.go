package pipeline

import "errors"

// ErrOverlappingRoots is returned when the input and output trees share a directory.
// Cleanup deletes non-media files under the output root, so nesting either way would
// reach the sources.
var ErrOverlappingRoots = errors.New("input and output roots overlap")
