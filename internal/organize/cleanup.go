package organize

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/vmunix/mediaprep/internal/media"
)

// tempMarker matches the suffix added by uniqueTempName.
var tempMarker = regexp.MustCompile(`_temp[0-9a-f]{32}`)

func uniqueTempName(stem, ext string) string {
	return stem + "_temp" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

// stripTemp removes the temporary marker from a name.
func stripTemp(name string) string {
	return tempMarker.ReplaceAllString(name, "")
}

// Cleanup deletes every file below the root that is not an .mp4 or .jpg, and gives each
// remaining file a unique temporary name so later numbering cannot collide with it.
func (o *Organizer) Cleanup() (deleted, staged int, err error) {
	var files []string
	err = filepath.WalkDir(o.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("walk directory: %w", err)
	}

	for _, path := range files {
		name := filepath.Base(path)
		if !media.IsOutputFile(name) {
			if err := os.Remove(path); err != nil {
				return deleted, staged, fmt.Errorf("remove %s: %w", path, err)
			}
			o.logger.Debug("removed non-media file", "path", path)
			deleted++
			continue
		}

		ext := filepath.Ext(name)
		tmp := filepath.Join(filepath.Dir(path), o.tempName(strings.TrimSuffix(name, ext), ext))
		if err := moveFile(path, tmp); err != nil {
			return deleted, staged, err
		}
		staged++
	}
	return deleted, staged, nil
}
