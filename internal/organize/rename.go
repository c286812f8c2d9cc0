package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Rename numbers the files of every directory below and including the root, breadth first.
// Files in V become V(i).mp4, files in P become P(i).jpg and files anywhere else become
// preview(i) with their lowercased extension. Indices start at 1 and are zero-padded to the
// width of the directory's file count. Files are ordered by name, ignoring temporary markers.
func (o *Organizer) Rename() (int, error) {
	renamed := 0
	queue := []string{o.root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return renamed, fmt.Errorf("read directory: %w", err)
		}

		var files []string
		for _, e := range entries {
			if e.IsDir() {
				queue = append(queue, filepath.Join(dir, e.Name()))
			} else {
				files = append(files, e.Name())
			}
		}

		n, err := o.renameFiles(dir, files)
		renamed += n
		if err != nil {
			return renamed, err
		}
	}
	return renamed, nil
}

func (o *Organizer) renameFiles(dir string, files []string) (int, error) {
	sort.SliceStable(files, func(i, j int) bool {
		ki, kj := stripTemp(files[i]), stripTemp(files[j])
		if ki != kj {
			return ki < kj
		}
		return files[i] < files[j]
	})

	kind := filepath.Base(dir)
	if dir == o.root {
		kind = ""
	}

	renamed := 0
	for i, name := range files {
		target := NumberedName(kind, name, i+1, len(files))
		if target == name {
			continue
		}
		src := filepath.Join(dir, name)
		dst := filepath.Join(dir, target)
		if err := moveFile(src, dst); err != nil {
			return renamed, fmt.Errorf("%w: %v", ErrRenameCollision, err)
		}
		renamed++
	}
	if renamed > 0 {
		o.logger.Debug("numbered files", "dir", dir, "files", len(files), "renamed", renamed)
	}
	return renamed, nil
}

// NumberedName returns the name of the index-th of total files in a directory named dirName.
func NumberedName(dirName, name string, index, total int) string {
	width := len(strconv.Itoa(total))
	num := fmt.Sprintf("%0*d", width, index)
	switch dirName {
	case VideoDir:
		return "V(" + num + ").mp4"
	case PhotoDir:
		return "P(" + num + ").jpg"
	default:
		return "preview(" + num + ")" + lowerExt(name)
	}
}
