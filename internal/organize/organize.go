// Package organize reshapes a converted output tree into V (video) and P (picture) group
// folders with sequentially numbered files.
package organize

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Group folder names.
const (
	VideoDir = "V"
	PhotoDir = "P"
)

// Stats summarizes an organize pass.
type Stats struct {
	Deleted int      // Non-media files removed in cleanup
	Staged  int      // Files given temporary names
	Groups  []string // Directories that received new V/P folders, relative to the root
	Renamed int      // Files renamed by the numbering pass
	Removed int      // Empty directories swept
}

// Organizer runs the cleanup, grouping, numbering and sweep passes on one root.
type Organizer struct {
	root     string
	logger   *slog.Logger
	tempName func(stem, ext string) string
}

// New creates an Organizer for root.
func New(root string, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{
		root:     filepath.Clean(root),
		logger:   logger,
		tempName: uniqueTempName,
	}
}

// Root returns the directory being organized.
func (o *Organizer) Root() string {
	return o.root
}

// Run performs cleanup, empty-folder sweep, grouping, numbering and a final sweep.
// Filesystem errors stop the run.
func (o *Organizer) Run() (Stats, error) {
	var st Stats
	var err error

	st.Deleted, st.Staged, err = o.Cleanup()
	if err != nil {
		return st, fmt.Errorf("cleanup: %w", err)
	}
	removed, err := Sweep(o.root)
	st.Removed += removed
	if err != nil {
		return st, fmt.Errorf("sweep: %w", err)
	}

	st.Groups, err = o.Group()
	if err != nil {
		return st, fmt.Errorf("group: %w", err)
	}

	st.Renamed, err = o.Rename()
	if err != nil {
		return st, fmt.Errorf("rename: %w", err)
	}

	removed, err = Sweep(o.root)
	st.Removed += removed
	if err != nil {
		return st, fmt.Errorf("sweep: %w", err)
	}

	o.logger.Info("organized output tree",
		"root", o.root,
		"deleted", st.Deleted,
		"groups", len(st.Groups),
		"renamed", st.Renamed,
		"removed_dirs", st.Removed,
	)
	return st, nil
}

// isGroupDir reports whether name is one of the fixed group folder names.
func isGroupDir(name string) bool {
	return name == VideoDir || name == PhotoDir
}

// exists reports whether path exists (any file type).
func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// moveFile renames src to dst, refusing to replace an existing entry.
func moveFile(src, dst string) error {
	taken, err := exists(dst)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	return nil
}

// lowerExt returns the lowercase extension of name, with its dot.
func lowerExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
