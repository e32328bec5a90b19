package seal

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/systemshift/corpus-seal/internal/store"
)

// TimestampLayout is the ts_iso format: second precision, UTC, literal Z.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Document is the persisted seal. RootHash depends only on Entries.
type Document struct {
	Artifact  string
	Algorithm string
	RootHash  string
	Entries   []Entry
	Epoch     int64
	CreatedAt time.Time
}

// wireDocument fixes the on-disk field names and order.
type wireDocument struct {
	Artifact string  `json:"artifact"`
	Algo     string  `json:"algo"`
	Root     string  `json:"root_sha3_256"`
	Entries  []Entry `json:"entries"`
	Epoch    int64   `json:"epoch"`
	TsISO    string  `json:"ts_iso"`
}

// rawDocument uses pointers so absent fields can be told apart from zero values.
type rawDocument struct {
	Artifact *string     `json:"artifact"`
	Algo     *string     `json:"algo"`
	Root     *string     `json:"root_sha3_256"`
	Entries  *[]rawEntry `json:"entries"`
	Epoch    *int64      `json:"epoch"`
	TsISO    *string     `json:"ts_iso"`
}

type rawEntry struct {
	Path *string `json:"path"`
	Hash *string `json:"sha3_256"`
}

// NewDocument builds a document for entries already sealed into root.
func NewDocument(artifact string, epoch int64, entries []Entry, root string, now time.Time) *Document {
	return &Document{
		Artifact:  artifact,
		Algorithm: AlgorithmID,
		RootHash:  root,
		Entries:   entries,
		Epoch:     epoch,
		CreatedAt: now.UTC().Truncate(time.Second),
	}
}

// Marshal encodes the document as two-space indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	entries := d.Entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(wireDocument{
		Artifact: d.Artifact,
		Algo:     d.Algorithm,
		Root:     d.RootHash,
		Entries:  entries,
		Epoch:    d.Epoch,
		TsISO:    d.CreatedAt.UTC().Format(TimestampLayout),
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ParseDocument decodes and validates a seal document. Every failure is ErrParse.
func ParseDocument(data []byte) (*Document, error) {
	return parseDocument("", data)
}

func parseDocument(path string, data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, parseErrorf(path, "decode: %w", err)
	}

	missing := []string{}
	for name, present := range map[string]bool{
		"artifact":      raw.Artifact != nil,
		"algo":          raw.Algo != nil,
		"root_sha3_256": raw.Root != nil,
		"entries":       raw.Entries != nil,
		"epoch":         raw.Epoch != nil,
		"ts_iso":        raw.TsISO != nil,
	} {
		if !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, parseErrorf(path, "missing fields: %s", strings.Join(missing, ", "))
	}

	if *raw.Algo != AlgorithmID {
		return nil, parseErrorf(path, "unsupported algo %q", *raw.Algo)
	}
	if !isDigestHex(*raw.Root) {
		return nil, parseErrorf(path, "root_sha3_256 is not a lowercase hex %s digest", AlgorithmID)
	}
	created, err := time.Parse(time.RFC3339, *raw.TsISO)
	if err != nil {
		return nil, parseErrorf(path, "ts_iso: %w", err)
	}

	entries := make([]Entry, 0, len(*raw.Entries))
	for i, e := range *raw.Entries {
		if e.Path == nil {
			return nil, parseErrorf(path, "entries[%d]: missing path", i)
		}
		if e.Hash == nil {
			return nil, parseErrorf(path, "entries[%d]: missing sha3_256", i)
		}
		entries = append(entries, Entry{Path: *e.Path, ContentHash: *e.Hash})
	}

	return &Document{
		Artifact:  *raw.Artifact,
		Algorithm: *raw.Algo,
		RootHash:  *raw.Root,
		Entries:   entries,
		Epoch:     *raw.Epoch,
		CreatedAt: created.UTC(),
	}, nil
}

func isDigestHex(s string) bool {
	if len(s) != 2*DigestSize() || strings.ToLower(s) != s {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// LoadDocument reads and parses the seal document at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(path, err)
	}
	return parseDocument(path, data)
}

// WriteDocument persists doc at path atomically; a failed write leaves any
// previous file untouched.
func WriteDocument(path string, doc *Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return ioError(path, err)
	}
	if err := store.SafeWrite(path, data, 0644); err != nil {
		return ioError(path, err)
	}
	return nil
}
