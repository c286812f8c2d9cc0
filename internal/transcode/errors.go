package transcode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownEncoder indicates an encoder name outside the supported set.
	ErrUnknownEncoder = errors.New("unknown encoder")

	// ErrTranscodeFailed indicates the transcoder exited with an error.
	ErrTranscodeFailed = errors.New("transcode failed")
)

// ExecError describes a failed transcoder invocation.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%v: %v", ErrTranscodeFailed, e.Err)
	if last := lastLine(e.Stderr); last != "" {
		msg += ": " + last
	}
	return msg
}

func (e *ExecError) Unwrap() []error {
	return []error{ErrTranscodeFailed, e.Err}
}

// lastLine returns the last non-empty line of s, which is where ffmpeg reports the failure.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
