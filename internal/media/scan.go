package media

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// File is a media file found by Scan.
type File struct {
	Path    string // Path as walked (root joined with RelPath)
	RelPath string // Path relative to the scanned root
	Kind    Kind
}

// Scan walks root recursively and returns every file with a video or image extension,
// sorted by relative path.
func Scan(root string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, root)
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		kind := KindOf(path)
		if kind == KindUnknown {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, File{Path: path, RelPath: rel, Kind: kind})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Split partitions files into videos and images, keeping order.
func Split(files []File) (videos, images []File) {
	for _, f := range files {
		switch f.Kind {
		case KindVideo:
			videos = append(videos, f)
		case KindImage:
			images = append(images, f)
		}
	}
	return videos, images
}
