package names

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapTransliterator replaces runes from a fixed table.
type mapTransliterator map[rune]rune

func (m mapTransliterator) Convert(in string) (string, error) {
	return strings.Map(func(r rune) rune {
		if out, ok := m[r]; ok {
			return out
		}
		return r
	}, in), nil
}

type failingTransliterator struct{}

func (failingTransliterator) Convert(string) (string, error) {
	return "", errors.New("dictionary unavailable")
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mkfile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestConvertTree_ChildBeforeParent(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "简体", "图片.jpg"))
	mkfile(t, filepath.Join(root, "简体", "deep", "简.mp4"))
	mkfile(t, filepath.Join(root, "plain.mp4"))

	c := NewConverter(mapTransliterator{'简': '簡', '体': '體', '图': '圖'}, quiet())
	n, err := c.ConvertTree(root)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.FileExists(t, filepath.Join(root, "簡體", "圖片.jpg"))
	assert.FileExists(t, filepath.Join(root, "簡體", "deep", "簡.mp4"))
	assert.FileExists(t, filepath.Join(root, "plain.mp4"))
	assert.NoDirExists(t, filepath.Join(root, "简体"))
}

func TestConvertTree_RootKeepsName(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "简")
	mkfile(t, filepath.Join(root, "a.jpg"))

	c := NewConverter(mapTransliterator{'简': '簡'}, quiet())
	_, err := c.ConvertTree(root)
	require.NoError(t, err)
	assert.DirExists(t, root)
}

func TestConvertTree_Collision(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "简.jpg"))
	mkfile(t, filepath.Join(root, "簡.jpg"))

	c := NewConverter(mapTransliterator{'简': '簡'}, quiet())
	_, err := c.ConvertTree(root)
	assert.ErrorIs(t, err, ErrCollision)

	// Neither file was clobbered.
	assert.FileExists(t, filepath.Join(root, "简.jpg"))
	assert.FileExists(t, filepath.Join(root, "簡.jpg"))
}

func TestConvertTree_TransliteratorError(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "a.jpg"))

	_, err := NewConverter(failingTransliterator{}, quiet()).ConvertTree(root)
	assert.Error(t, err)
}

func TestName_NFC(t *testing.T) {
	c := NewConverter(mapTransliterator{}, quiet())

	got, changed, err := c.Name("cafe\u0301.jpg")
	require.NoError(t, err)
	assert.False(t, changed, "normalization alone is not a rename")
	assert.Equal(t, "caf\u00e9.jpg", got)
}

func TestOpenCCProfile(t *testing.T) {
	tr, err := NewTransliterator(DefaultProfile)
	require.NoError(t, err)

	c := NewConverter(tr, quiet())
	got, changed, err := c.Name("简体图片")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "簡體圖片", got)

	got, changed, err = c.Name("V(01).mp4")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "V(01).mp4", got)
}

func TestNewTransliterator_UnknownProfile(t *testing.T) {
	_, err := NewTransliterator("klingon")
	assert.Error(t, err)
}
