// Package symbols provides the per-build-context symbol interner and the
// lexicon that resolves authoring spellings to canonical identifiers.
package symbols

import "fmt"

// ID is a dense index into a build context's symbol table. IDs are only
// meaningful within the context that produced them; two contexts never
// share identifiers.
type ID int32

// Kind distinguishes what a symbol names.
type Kind int

const (
	KindConstant Kind = iota
	KindVariable
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindVariable:
		return "variable"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Symbol is one interned spelling.
type Symbol struct {
	ID   ID
	Name string
	Kind Kind
}

// Interner assigns dense ids to canonical spellings in first-occurrence
// order. It is owned by a single build context and is not safe for
// concurrent use.
type Interner struct {
	byName map[string]ID
	table  []Symbol
}

func NewInterner() *Interner {
	return &Interner{byName: make(map[string]ID)}
}

// Intern returns the id for name, assigning the next dense id on first
// sight. Re-interning an existing spelling with a different kind is an
// error; the first registration wins the kind.
func (in *Interner) Intern(name string, kind Kind) (ID, error) {
	if name == "" {
		return 0, fmt.Errorf("intern: empty spelling")
	}
	if id, ok := in.byName[name]; ok {
		if in.table[id].Kind != kind {
			return 0, fmt.Errorf(
				"intern: %q already registered as %s, cannot re-register as %s",
				name, in.table[id].Kind, kind,
			)
		}
		return id, nil
	}
	id := ID(len(in.table))
	in.table = append(in.table, Symbol{ID: id, Name: name, Kind: kind})
	in.byName[name] = id
	return id, nil
}

// Lookup reports the id for an already-interned spelling.
func (in *Interner) Lookup(name string) (ID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// Symbol returns the table entry for id.
func (in *Interner) Symbol(id ID) (Symbol, bool) {
	if id < 0 || int(id) >= len(in.table) {
		return Symbol{}, false
	}
	return in.table[id], true
}

// Name resolves id back to its canonical spelling, with a placeholder for
// ids outside the table.
func (in *Interner) Name(id ID) string {
	if sym, ok := in.Symbol(id); ok {
		return sym.Name
	}
	return fmt.Sprintf("#%d", id)
}

// Len reports how many symbols the context has interned.
func (in *Interner) Len() int { return len(in.table) }

// Symbols returns the table in id order. The slice is shared; callers must
// not mutate it.
func (in *Interner) Symbols() []Symbol { return in.table }

// IsCanonical reports whether a spelling is made only of the canonical
// alphabet (printable ASCII, no whitespace). Alias spellings such as "→"
// or "¬" fail this check and must be resolved through a lexicon.
func IsCanonical(spelling string) bool {
	if spelling == "" {
		return false
	}
	for _, r := range spelling {
		if r < '!' || r > '~' {
			return false
		}
	}
	return true
}
