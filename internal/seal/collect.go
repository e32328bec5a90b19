package seal

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileRef is one collected file. Path opens it, Key is its forward-slash form
// used for ordering and as the entry path.
type FileRef struct {
	Path string
	Key  string
}

// Collection is the result of expanding input paths.
type Collection struct {
	Files   []FileRef
	Skipped []string // inputs that did not exist
}

// Collect expands files and directories into a flat list sorted by Key.
// Nonexistent inputs are skipped. Files reachable through more than one
// input are listed once per input. An input that links to a directory is
// walked through the link and keyed under the link's name.
func Collect(paths []string) (*Collection, error) {
	c := &Collection{Files: []FileRef{}}
	for _, p := range paths {
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			c.Skipped = append(c.Skipped, p)
			continue
		}
		if err != nil {
			return nil, ioError(p, err)
		}
		if !info.IsDir() {
			if info.Mode().IsRegular() {
				c.Files = append(c.Files, newFileRef(filepath.Clean(p)))
			}
			continue
		}
		root := filepath.Clean(p)
		if link, err := os.Lstat(root); err == nil && link.Mode()&fs.ModeSymlink != 0 {
			// WalkDir only follows a root that ends in a separator
			root += string(filepath.Separator)
		}
		if err := c.walk(root); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(c.Files, func(i, j int) bool {
		return c.Files[i].Key < c.Files[j].Key
	})
	return c, nil
}

func (c *Collection) walk(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return ioError(path, err)
		}
		switch {
		case d.Type().IsRegular():
			c.Files = append(c.Files, newFileRef(path))
		case d.Type()&fs.ModeSymlink != 0:
			// below an input, follow links to files, never into directories
			info, err := os.Stat(path)
			if err == nil && info.Mode().IsRegular() {
				c.Files = append(c.Files, newFileRef(path))
			}
		}
		return nil
	})
}

func newFileRef(path string) FileRef {
	return FileRef{Path: path, Key: filepath.ToSlash(path)}
}

// Keys returns the sort keys of the collected files in order.
func (c *Collection) Keys() []string {
	keys := make([]string, len(c.Files))
	for i, f := range c.Files {
		keys[i] = f.Key
	}
	return keys
}
