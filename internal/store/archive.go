package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// Archive keeps produced seal documents as immutable CID-addressed objects.
type Archive struct {
	dir string
}

// NewArchive opens the archive rooted at dir, creating it if needed.
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// ComputeCID returns a CIDv1 (raw codec, SHA3-256) for data.
func ComputeCID(data []byte) (gocid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA3_256, -1)
	if err != nil {
		return gocid.Undef, fmt.Errorf("multihash: %w", err)
	}
	return gocid.NewCidV1(gocid.Raw, mh), nil
}

// CIDFilename is the base32 multibase form of c.
func CIDFilename(c gocid.Cid) string {
	name, _ := multibase.Encode(multibase.Base32, c.Bytes())
	return name
}

// ParseCIDFilename reverses CIDFilename.
func ParseCIDFilename(name string) (gocid.Cid, error) {
	_, raw, err := multibase.Decode(name)
	if err != nil {
		return gocid.Undef, fmt.Errorf("decode %s: %w", name, err)
	}
	return gocid.Cast(raw)
}

// PutJSON stores the canonical JSON form of v.
func (a *Archive) PutJSON(v any) (gocid.Cid, error) {
	data, err := CanonicalJSON(v)
	if err != nil {
		return gocid.Undef, fmt.Errorf("canonical json: %w", err)
	}
	return a.Put(data)
}

// Put stores data under its CID. Storing existing content is a no-op.
func (a *Archive) Put(data []byte) (gocid.Cid, error) {
	c, err := ComputeCID(data)
	if err != nil {
		return gocid.Undef, err
	}
	if a.Has(c) {
		return c, nil
	}
	if err := SafeWrite(a.path(c), data, 0444); err != nil {
		return gocid.Undef, fmt.Errorf("write object: %w", err)
	}
	return c, nil
}

// Get reads the object stored under c.
func (a *Archive) Get(c gocid.Cid) ([]byte, error) {
	data, err := os.ReadFile(a.path(c))
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", c, err)
	}
	return data, nil
}

// Has reports whether c is stored.
func (a *Archive) Has(c gocid.Cid) bool {
	_, err := os.Stat(a.path(c))
	return err == nil
}

// List returns every stored CID, ordered by filename.
func (a *Archive) List() ([]gocid.Cid, error) {
	dirents, err := os.ReadDir(a.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		if d.Type().IsRegular() && d.Name()[0] != '.' {
			names = append(names, d.Name())
		}
	}
	sort.Strings(names)

	cids := make([]gocid.Cid, 0, len(names))
	for _, name := range names {
		c, err := ParseCIDFilename(name)
		if err != nil {
			continue // foreign file
		}
		cids = append(cids, c)
	}
	return cids, nil
}

func (a *Archive) path(c gocid.Cid) string {
	return filepath.Join(a.dir, CIDFilename(c))
}
