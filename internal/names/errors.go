package names

import "errors"

// ErrCollision indicates a converted name is already taken by a sibling.
var ErrCollision = errors.New("converted name already exists")
