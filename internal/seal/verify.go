package seal

// State is a step of the verification protocol.
type State int

const (
	StateLoaded State = iota
	StateRecomputed
	StateMatch
	StateMismatch
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "LOADED"
	case StateRecomputed:
		return "RECOMPUTED"
	case StateMatch:
		return "MATCH"
	case StateMismatch:
		return "MISMATCH"
	default:
		return "UNKNOWN"
	}
}

// Verification is the outcome of checking a stored seal against live files.
type Verification struct {
	State    State
	Expected string // root recorded in the document
	Actual   string // root recomputed from the live paths
	Document *Document
	Skipped  []string
}

// Match reports whether the recomputed root equals the recorded one.
func (v *Verification) Match() bool {
	return v.State == StateMatch
}

// Verify loads the seal at sealPath and recomputes it over paths, which the
// caller supplies fresh on every run. A mismatch is a result, not an error;
// errors are ErrIO or ErrParse and abort before any comparison.
func Verify(sealPath string, paths []string) (*Verification, error) {
	doc, err := LoadDocument(sealPath)
	if err != nil {
		return nil, err
	}
	v := &Verification{State: StateLoaded, Expected: doc.RootHash, Document: doc}

	c, _, root, err := SealPaths(paths)
	if err != nil {
		return nil, err
	}
	v.State = StateRecomputed
	v.Actual = root
	v.Skipped = c.Skipped

	if v.Actual == v.Expected {
		v.State = StateMatch
	} else {
		v.State = StateMismatch
	}
	return v, nil
}
