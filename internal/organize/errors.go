package organize

import "errors"

var (
	// ErrDestinationExists indicates a move or rename target is already taken.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrRenameCollision indicates a numbered name is held by another entry.
	ErrRenameCollision = errors.New("numbered name already taken")
)
