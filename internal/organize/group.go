package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmunix/mediaprep/internal/media"
)

// Group walks the tree level by level from the root. A directory with neither a V nor a P
// child has its direct .mp4 files moved into a new V folder and its .jpg files into a new P
// folder. Directories that already hold V or P are left as they are. Group returns the
// directories that received new folders, relative to the root.
func (o *Organizer) Group() ([]string, error) {
	var groups []string

	level := []string{o.root}
	for len(level) > 0 {
		var next []string
		for _, dir := range level {
			grouped, err := o.groupDir(dir)
			if err != nil {
				return groups, err
			}
			if grouped {
				rel, err := filepath.Rel(o.root, dir)
				if err != nil {
					return groups, err
				}
				groups = append(groups, rel)
			}

			subdirs, err := subdirectories(dir)
			if err != nil {
				return groups, err
			}
			next = append(next, subdirs...)
		}
		level = next
	}
	return groups, nil
}

// groupDir creates V and P under dir and moves dir's direct media files into them.
func (o *Organizer) groupDir(dir string) (bool, error) {
	if dir != o.root && isGroupDir(filepath.Base(dir)) {
		return false, nil
	}

	for _, name := range []string{VideoDir, PhotoDir} {
		organized, err := exists(filepath.Join(dir, name))
		if err != nil {
			return false, err
		}
		if organized {
			return false, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("read directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && media.IsOutputFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return false, nil
	}
	sort.Strings(files)

	vDir := filepath.Join(dir, VideoDir)
	pDir := filepath.Join(dir, PhotoDir)
	for _, d := range []string{vDir, pDir} {
		if err := os.Mkdir(d, 0755); err != nil {
			return false, fmt.Errorf("create %s: %w", d, err)
		}
	}

	for _, name := range files {
		target := pDir
		if lowerExt(name) == media.VideoOutputExt {
			target = vDir
		}
		if err := moveFile(filepath.Join(dir, name), filepath.Join(target, name)); err != nil {
			return false, err
		}
	}
	o.logger.Debug("grouped directory", "dir", dir, "files", len(files))
	return true, nil
}

// subdirectories lists dir's child directories other than V and P, sorted by name.
func subdirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !isGroupDir(e.Name()) {
			dirs = append(dirs, filepath.Join(dir, e.Name()))
		}
	}
	return dirs, nil
}
