package seal

import (
	"encoding/hex"
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// Entry is one file's path and content digest within a seal.
type Entry struct {
	Path        string `json:"path"`
	ContentHash string `json:"sha3_256"`
}

// HashFile digests the full contents of path, returning lowercase hex.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ioError(path, err)
	}
	defer f.Close()

	h := newHasher()
	if _, err := io.Copy(h, f); err != nil {
		return "", ioError(path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Seal hashes each file in the given order and folds the entries into a root.
// Any unreadable file, or a path that cannot be stored as UTF-8 JSON,
// aborts the whole seal.
func Seal(files []FileRef) ([]Entry, string, error) {
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		if !utf8.ValidString(f.Key) {
			return nil, "", ioError(f.Path, errors.New("path is not valid UTF-8"))
		}
		sum, err := HashFile(f.Path)
		if err != nil {
			return nil, "", err
		}
		entries = append(entries, Entry{Path: f.Key, ContentHash: sum})
	}
	return entries, RootHash(entries), nil
}

// RootHash chains "path:hash" for every entry, in list order, through one
// hash state. Reordering, adding, removing or changing an entry changes it.
func RootHash(entries []Entry) string {
	h := newHasher()
	for _, e := range entries {
		io.WriteString(h, e.Path+":"+e.ContentHash)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SealPaths runs Collect then Seal over paths.
func SealPaths(paths []string) (*Collection, []Entry, string, error) {
	c, err := Collect(paths)
	if err != nil {
		return nil, nil, "", err
	}
	entries, root, err := Seal(c.Files)
	if err != nil {
		return nil, nil, "", err
	}
	return c, entries, root, nil
}
