// internal/models/ref.go
package models

import (
	"fmt"
	"strings"
)

// FirmRef is an unchecked reference to a firm by display name, as found in
// portfolio "source" and news "firm" fields.
type FirmRef string

func (r FirmRef) String() string { return string(r) }

// IsZero reports whether the reference is empty or whitespace.
func (r FirmRef) IsZero() bool { return strings.TrimSpace(string(r)) == "" }

// Is reports whether the reference names firm exactly.
func (r FirmRef) Is(firm string) bool { return string(r) == firm }

// EqualFold reports a case-insensitive match against firm.
func (r FirmRef) EqualFold(firm string) bool { return strings.EqualFold(string(r), firm) }

// FirmID is a reference that has been resolved against the firm store. The
// zero value is not a valid ID; obtain one from FirmIndex.Resolve.
type FirmID struct {
	name string
}

func (id FirmID) Name() string   { return id.name }
func (id FirmID) Valid() bool    { return id.name != "" }
func (id FirmID) String() string { return id.name }

// DanglingReferenceError describes a FirmRef that names no known firm.
type DanglingReferenceError struct {
	Collection string  `json:"collection" yaml:"collection"`
	Index      int     `json:"index" yaml:"index"`
	Field      string  `json:"field" yaml:"field"`
	Ref        FirmRef `json:"ref" yaml:"ref"`
	Record     string  `json:"record" yaml:"record"`
	Suggestion string  `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

func (e *DanglingReferenceError) Error() string {
	msg := fmt.Sprintf("%s[%d].%s: firm %q not found", e.Collection, e.Index, e.Field, string(e.Ref))
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// FirmIndex resolves FirmRefs against the set of firm keys.
type FirmIndex struct {
	exact  map[string]struct{}
	folded map[string]string
}

// NewFirmIndex indexes the given firm names.
func NewFirmIndex(names []string) *FirmIndex {
	ix := &FirmIndex{
		exact:  make(map[string]struct{}, len(names)),
		folded: make(map[string]string, len(names)),
	}
	for _, name := range names {
		ix.exact[name] = struct{}{}
		ix.folded[strings.ToLower(name)] = name
	}
	return ix
}

// Len is the number of indexed firms.
func (ix *FirmIndex) Len() int { return len(ix.exact) }

// Resolve validates ref by exact name. On failure the returned error is a
// *DanglingReferenceError whose Suggestion holds a case-insensitive match,
// if any.
func (ix *FirmIndex) Resolve(ref FirmRef) (FirmID, error) {
	if _, ok := ix.exact[string(ref)]; ok {
		return FirmID{name: string(ref)}, nil
	}
	return FirmID{}, &DanglingReferenceError{
		Ref:        ref,
		Suggestion: ix.folded[strings.ToLower(string(ref))],
	}
}
