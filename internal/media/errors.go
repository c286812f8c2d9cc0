package media

import "errors"

// ErrInputNotFound indicates the scan root is missing or not a directory.
var ErrInputNotFound = errors.New("input directory not found")
