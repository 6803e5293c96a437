package wff

import (
	"strings"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

// TokenSeq is the canonical prefix encoding of a formula: the connective
// token followed by its operands' encodings, over context-local ids.
type TokenSeq []symbols.ID

// Equal reports token-for-token equality.
func (t TokenSeq) Equal(other TokenSeq) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (t TokenSeq) Clone() TokenSeq {
	out := make(TokenSeq, len(t))
	copy(out, t)
	return out
}

// Spellings maps the sequence back to canonical spellings.
func (t TokenSeq) Spellings(in *symbols.Interner) []string {
	out := make([]string, len(t))
	for i, id := range t {
		out[i] = in.Name(id)
	}
	return out
}

// Render joins the canonical spellings with spaces. Canonical spellings
// contain no whitespace, so the rendering is unambiguous.
func (t TokenSeq) Render(in *symbols.Interner) string {
	return strings.Join(t.Spellings(in), " ")
}
