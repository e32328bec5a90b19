package seal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 1, 12, 30, 45, 999, time.UTC)

func helloWorldDocument() *Document {
	entries := []Entry{
		{Path: "a.txt", ContentHash: sha3Hello},
		{Path: "b/c.txt", ContentHash: sha3World},
	}
	return NewDocument("vm-umbrella", 1, entries, RootHash(entries), testTime)
}

func TestDocument_MarshalLayout(t *testing.T) {
	data, err := helloWorldDocument().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "artifact": "vm-umbrella",
  "algo": "SHA3-256",
  "root_sha3_256": "` + helloWorldRoot + `",
  "entries": [
    {
      "path": "a.txt",
      "sha3_256": "` + sha3Hello + `"
    },
    {
      "path": "b/c.txt",
      "sha3_256": "` + sha3World + `"
    }
  ],
  "epoch": 1,
  "ts_iso": "2026-03-01T12:30:45Z"
}
`
	if string(data) != want {
		t.Errorf("got:\n%s\nwant:\n%s", data, want)
	}
}

func TestDocument_EmptyEntriesEncodeAsArray(t *testing.T) {
	doc := NewDocument("x", 1, nil, RootHash(nil), testTime)
	data, err := doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"entries": []`) {
		t.Errorf("entries not encoded as []: %s", data)
	}
	if _, err := ParseDocument(data); err != nil {
		t.Errorf("ParseDocument: %v", err)
	}
}

func TestParseDocument_RoundTrip(t *testing.T) {
	orig := helloWorldDocument()
	data, err := orig.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if got.Artifact != orig.Artifact || got.Algorithm != AlgorithmID ||
		got.RootHash != orig.RootHash || got.Epoch != orig.Epoch {
		t.Errorf("header mismatch: %+v vs %+v", got, orig)
	}
	if !got.CreatedAt.Equal(testTime.Truncate(time.Second)) {
		t.Errorf("created = %v, want %v", got.CreatedAt, testTime.Truncate(time.Second))
	}
	if len(got.Entries) != 2 || got.Entries[1] != orig.Entries[1] {
		t.Errorf("entries = %+v", got.Entries)
	}
	if RootHash(got.Entries) != got.RootHash {
		t.Error("parsed entries no longer produce the stored root")
	}
}

func TestParseDocument_Rejects(t *testing.T) {
	root := `"` + helloWorldRoot + `"`
	cases := map[string]string{
		"not json":        `not valid json`,
		"array":           `[]`,
		"missing root":    `{"artifact":"a","algo":"SHA3-256","entries":[],"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"missing entries": `{"artifact":"a","algo":"SHA3-256","root_sha3_256":` + root + `,"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"null entries":    `{"artifact":"a","algo":"SHA3-256","root_sha3_256":` + root + `,"entries":null,"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"missing ts":      `{"artifact":"a","algo":"SHA3-256","root_sha3_256":` + root + `,"entries":[],"epoch":1}`,
		"epoch string":    `{"artifact":"a","algo":"SHA3-256","root_sha3_256":` + root + `,"entries":[],"epoch":"1","ts_iso":"2026-01-01T00:00:00Z"}`,
		"root number":     `{"artifact":"a","algo":"SHA3-256","root_sha3_256":5,"entries":[],"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"other algo":      `{"artifact":"a","algo":"SHA2-256","root_sha3_256":` + root + `,"entries":[],"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"short root":      `{"artifact":"a","algo":"SHA3-256","root_sha3_256":"abcd","entries":[],"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"upper root":      `{"artifact":"a","algo":"SHA3-256","root_sha3_256":"` + strings.ToUpper(helloWorldRoot) + `","entries":[],"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"bad ts":          `{"artifact":"a","algo":"SHA3-256","root_sha3_256":` + root + `,"entries":[],"epoch":1,"ts_iso":"yesterday"}`,
		"entry no path":   `{"artifact":"a","algo":"SHA3-256","root_sha3_256":` + root + `,"entries":[{"sha3_256":"00"}],"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
		"entry no hash":   `{"artifact":"a","algo":"SHA3-256","root_sha3_256":` + root + `,"entries":[{"path":"a"}],"epoch":1,"ts_iso":"2026-01-01T00:00:00Z"}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument([]byte(input))
			if !errors.Is(err, ErrParse) {
				t.Fatalf("err = %v, want ErrParse", err)
			}
			if errors.Is(err, ErrIO) {
				t.Errorf("parse failure also reported as io: %v", err)
			}
		})
	}
}

func TestParseDocument_ReportsAllMissingFields(t *testing.T) {
	_, err := ParseDocument([]byte(`{"artifact":"a"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	want := "missing fields: algo, entries, epoch, root_sha3_256, ts_iso"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("err = %q, want it to contain %q", err, want)
	}
}

func TestWriteAndLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seal.json")
	orig := helloWorldDocument()
	if err := WriteDocument(path, orig); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	got, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if got.RootHash != orig.RootHash {
		t.Errorf("root = %s, want %s", got.RootHash, orig.RootHash)
	}
}

func TestWriteDocument_UnwritableIsIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "seal.json")
	err := WriteDocument(path, helloWorldDocument())
	if !errors.Is(err, ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("partial seal written")
	}
}

func TestLoadDocument_MissingIsIOError(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
}
