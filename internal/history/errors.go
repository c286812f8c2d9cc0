package history

import "errors"

var (
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotStarted indicates a run or entry was used before StartRun assigned it an ID.
	ErrNotStarted = errors.New("run not started")
)
