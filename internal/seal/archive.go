package seal

import (
	"encoding/json"
	"fmt"

	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/corpus-seal/internal/store"
)

// ArchiveDocument stores the canonical form of doc and returns its CID.
// Identical documents always land on the same CID.
func ArchiveDocument(a *store.Archive, doc *Document) (gocid.Cid, error) {
	data, err := doc.Marshal()
	if err != nil {
		return gocid.Undef, fmt.Errorf("marshal document: %w", err)
	}
	c, err := a.PutJSON(json.RawMessage(data))
	if err != nil {
		return gocid.Undef, ioError("archive", err)
	}
	return c, nil
}

// ArchivedDocument loads a previously archived document by CID.
func ArchivedDocument(a *store.Archive, c gocid.Cid) (*Document, error) {
	data, err := a.Get(c)
	if err != nil {
		return nil, ioError(c.String(), err)
	}
	return parseDocument(c.String(), data)
}
