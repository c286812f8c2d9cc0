package organize

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root,
		"top.mp4",
		"album/a.mp4",
		"album/b.jpg",
		"album/c.JPG",
		"album/sub/d.mp4",
		"photos/e.jpg",
		"empty-parent/child/f.mp4",
	)

	o := New(root, quietLogger())
	groups, err := o.Group()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{".", "album", "album/sub", "photos", "empty-parent/child"}, toSlash(groups))
	assert.Equal(t, map[string]string{
		"V/top.mp4":                  "top.mp4",
		"album/V/a.mp4":              "album/a.mp4",
		"album/P/b.jpg":              "album/b.jpg",
		"album/P/c.JPG":              "album/c.JPG",
		"album/sub/V/d.mp4":          "album/sub/d.mp4",
		"photos/P/e.jpg":             "photos/e.jpg",
		"empty-parent/child/V/f.mp4": "empty-parent/child/f.mp4",
	}, tree(t, root))

	// Both folders are created for every group, even when one stays empty until the sweep.
	assert.DirExists(t, filepath.Join(root, "P"))
	assert.DirExists(t, filepath.Join(root, "photos", "V"))
	assert.NoDirExists(t, filepath.Join(root, "empty-parent", "V"), "directories without direct media are not grouped")
}

func TestGroup_SkipsOrganizedDirectories(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root,
		"done/V/V(1).mp4",
		"done/late.mp4",
		"done/child/new.jpg",
		"half/P/P(1).jpg",
		"half/stray.mp4",
	)

	o := New(root, quietLogger())
	groups, err := o.Group()
	require.NoError(t, err)

	// Files added directly into an organized directory stay where they are.
	assert.Equal(t, []string{"done/child"}, toSlash(groups))
	got := tree(t, root)
	assert.Contains(t, got, "done/late.mp4")
	assert.Contains(t, got, "half/stray.mp4")
	assert.Contains(t, got, "done/V/V(1).mp4")
	assert.Contains(t, got, "done/child/P/new.jpg")
}

func TestGroup_DoesNotDescendIntoGroupFolders(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root, "x/V/nested/a.mp4", "x/b.mp4")

	o := New(root, quietLogger())
	groups, err := o.Group()
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Contains(t, tree(t, root), "x/V/nested/a.mp4")
}

func toSlash(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.ToSlash(p)
	}
	return out
}
