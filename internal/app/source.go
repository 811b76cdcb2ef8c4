package app

import (
	"errors"
	"fmt"

	"github.com/corey/acm/internal/adapters/patternfile"
	"github.com/corey/acm/internal/ports"
)

// ErrSetNotFound is returned when a named pattern set is not in the store.
var ErrSetNotFound = errors.New("pattern set not found")

// ErrNoSource is returned when a source names no patterns at all.
var ErrNoSource = errors.New("no pattern source: use --patterns, --file or --set")

// DemoPatterns is the classic teaching set used when nothing else is given.
var DemoPatterns = []string{"he", "she", "his", "hers"}

// Source names where patterns come from. At most one field is normally set;
// when several are, List wins over File, which wins over Set.
type Source struct {
	List string // comma-separated patterns
	File string // pattern file (.json, .yaml, .txt)
	Set  string // stored set name
}

// Empty reports whether no source is named.
func (s Source) Empty() bool {
	return s.List == "" && s.File == "" && s.Set == ""
}

// String describes the source for logs and CLI headers.
func (s Source) String() string {
	switch {
	case s.List != "":
		return "list"
	case s.File != "":
		return "file " + s.File
	case s.Set != "":
		return "set " + s.Set
	default:
		return "none"
	}
}

// LoadPatterns resolves src into a pattern list. store is only consulted for
// Set sources and may be nil otherwise.
func LoadPatterns(src Source, store ports.PatternStore) ([]string, error) {
	switch {
	case src.List != "":
		return patternfile.ParseList(src.List)
	case src.File != "":
		return patternfile.Load(src.File)
	case src.Set != "":
		if store == nil {
			return nil, fmt.Errorf("load set %s: no store", src.Set)
		}
		set, err := store.LoadSet(src.Set)
		if err != nil {
			return nil, fmt.Errorf("load set %s: %w", src.Set, err)
		}
		if set == nil {
			return nil, fmt.Errorf("%w: %s", ErrSetNotFound, src.Set)
		}
		return set.Patterns, nil
	default:
		return nil, ErrNoSource
	}
}
