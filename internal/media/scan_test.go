package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"b/clip.MOV",
		"a/photo.png",
		"a/notes.txt",
		"a/deep/movie.mkv",
		"top.jpg",
		"readme",
	)

	files, err := Scan(root)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, filepath.ToSlash(f.RelPath))
		assert.Equal(t, filepath.Join(root, f.RelPath), f.Path)
	}
	assert.Equal(t, []string{"a/deep/movie.mkv", "a/photo.png", "b/clip.MOV", "top.jpg"}, rels)

	videos, images := Split(files)
	require.Len(t, videos, 2)
	require.Len(t, images, 2)
	assert.Equal(t, KindVideo, videos[0].Kind)
	assert.Equal(t, "b/clip.MOV", filepath.ToSlash(videos[1].RelPath))
	assert.Equal(t, "top.jpg", images[1].RelPath)
}

func TestScan_Empty(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, errors.Is(err, ErrInputNotFound), "got %v", err)
}

func TestScan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "file.mp4")
	_, err := Scan(filepath.Join(root, "file.mp4"))
	assert.ErrorIs(t, err, ErrInputNotFound)
}
