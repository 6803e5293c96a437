package symbols

import (
	"fmt"
	"sort"
)

// Policy controls how the lexicon treats spellings it has never seen.
type Policy struct {
	// AutoRegisterCanonical lets a spelling that is already in canonical
	// form register itself as a constant on first use. Off by default;
	// strict builds want every spelling declared up front.
	AutoRegisterCanonical bool
}

// Mapping is one row of the name-mapping artifact: an authoring spelling,
// the canonical spelling it resolved to, and the interned id.
type Mapping struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical"`
	ID        ID     `json:"id"`
}

// ResolutionError reports an authoring spelling the lexicon cannot map to
// a canonical identifier.
type ResolutionError struct {
	Raw  string
	Note string
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("cannot resolve spelling %q: not registered in this build context", e.Raw)
	if e.Note != "" {
		msg += " (" + e.Note + ")"
	}
	return msg
}

// Lexicon resolves alias spellings to interned canonical symbols and
// records every successful resolution for the name-mapping artifact.
type Lexicon struct {
	interner *Interner
	aliases  map[string]string
	seen     map[string]Mapping
	policy   Policy
}

func NewLexicon(in *Interner, policy Policy) *Lexicon {
	return &Lexicon{
		interner: in,
		aliases:  make(map[string]string),
		seen:     make(map[string]Mapping),
		policy:   policy,
	}
}

// RegisterAlias maps an authoring spelling onto an already-interned
// canonical spelling. Re-registering the same pair is a no-op; pointing an
// existing alias at a different canonical spelling is an error.
func (l *Lexicon) RegisterAlias(raw, canonical string) error {
	if _, ok := l.interner.Lookup(canonical); !ok {
		return fmt.Errorf("register alias %q: canonical spelling %q is not interned", raw, canonical)
	}
	if prev, ok := l.aliases[raw]; ok && prev != canonical {
		return fmt.Errorf("register alias %q: already mapped to %q, cannot remap to %q", raw, prev, canonical)
	}
	l.aliases[raw] = canonical
	return nil
}

// Resolve maps an authoring spelling to its canonical id. Canonical
// spellings resolve to themselves; registered aliases follow the alias
// table; anything else fails with a ResolutionError unless the policy
// allows canonical-form self-registration.
func (l *Lexicon) Resolve(raw string) (ID, error) {
	if canonical, ok := l.aliases[raw]; ok {
		id, ok := l.interner.Lookup(canonical)
		if !ok {
			return 0, fmt.Errorf("alias %q maps to unregistered canonical %q", raw, canonical)
		}
		l.record(raw, canonical, id)
		return id, nil
	}
	if id, ok := l.interner.Lookup(raw); ok {
		l.record(raw, raw, id)
		return id, nil
	}
	if IsCanonical(raw) {
		if l.policy.AutoRegisterCanonical {
			id, err := l.interner.Intern(raw, KindConstant)
			if err != nil {
				return 0, err
			}
			l.record(raw, raw, id)
			return id, nil
		}
		return 0, &ResolutionError{Raw: raw, Note: "canonical self-registration is disabled"}
	}
	return 0, &ResolutionError{Raw: raw}
}

func (l *Lexicon) record(raw, canonical string, id ID) {
	if _, ok := l.seen[raw]; ok {
		return
	}
	l.seen[raw] = Mapping{Raw: raw, Canonical: canonical, ID: id}
}

// Mappings snapshots the resolutions seen so far, sorted by raw spelling.
func (l *Lexicon) Mappings() []Mapping {
	out := make([]Mapping, 0, len(l.seen))
	for _, m := range l.seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Raw < out[j].Raw })
	return out
}

// Interner exposes the underlying symbol table.
func (l *Lexicon) Interner() *Interner { return l.interner }
