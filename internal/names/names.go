// Package names transliterates file and folder names between Chinese script variants.
package names

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/longbridgeapp/opencc"
	"golang.org/x/text/unicode/norm"
)

// DefaultProfile converts simplified Chinese to traditional Chinese (Taiwan standard).
const DefaultProfile = "s2tw"

// Transliterator converts a name to another script.
type Transliterator interface {
	Convert(in string) (string, error)
}

// NewTransliterator loads the OpenCC conversion table for profile (e.g. "s2t", "s2tw", "s2hk").
func NewTransliterator(profile string) (Transliterator, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	cc, err := opencc.New(profile)
	if err != nil {
		return nil, fmt.Errorf("load conversion profile %q: %w", profile, err)
	}
	return cc, nil
}

// Converter renames every entry below a root through a Transliterator.
type Converter struct {
	tr     Transliterator
	logger *slog.Logger
}

// NewConverter creates a Converter.
func NewConverter(tr Transliterator, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{tr: tr, logger: logger}
}

// Name returns the converted form of name and whether it differs from name.
// Names are compared in NFC so decomposed forms alone never trigger a rename.
func (c *Converter) Name(name string) (string, bool, error) {
	nfc := norm.NFC.String(name)
	out, err := c.tr.Convert(nfc)
	if err != nil {
		return "", false, fmt.Errorf("convert %q: %w", name, err)
	}
	return out, out != nfc, nil
}

// ConvertTree renames every file and directory below root, children before their parent.
// root itself keeps its name. It returns the number of entries renamed and stops at the first
// error; an existing sibling with the target name is ErrCollision.
func (c *Converter) ConvertTree(root string) (int, error) {
	return c.convertChildren(root)
}

func (c *Converter) convertChildren(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	renamed := 0
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			n, err := c.convertChildren(path)
			renamed += n
			if err != nil {
				return renamed, err
			}
		}

		ok, err := c.renameEntry(dir, e.Name())
		if err != nil {
			return renamed, err
		}
		if ok {
			renamed++
		}
	}
	return renamed, nil
}

func (c *Converter) renameEntry(dir, name string) (bool, error) {
	newName, changed, err := c.Name(name)
	if err != nil || !changed {
		return false, err
	}

	src := filepath.Join(dir, name)
	dst := filepath.Join(dir, newName)
	if err := checkFree(src, dst); err != nil {
		return false, err
	}
	if err := os.Rename(src, dst); err != nil {
		return false, fmt.Errorf("rename %s: %w", src, err)
	}
	c.logger.Debug("renamed", "from", src, "to", dst)
	return true, nil
}

// checkFree fails if dst exists and is not src itself.
func checkFree(src, dst string) error {
	dstInfo, err := os.Lstat(dst)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", dst, err)
	}
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if os.SameFile(srcInfo, dstInfo) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrCollision, src, dst)
}
