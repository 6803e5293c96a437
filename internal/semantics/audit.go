package semantics

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// ResultKind classifies one audit outcome.
type ResultKind int

const (
	// Skipped means the assertion leaves the propositional fragment, or
	// exceeds the enumeration limit, and was not judged.
	Skipped ResultKind = iota
	// Tautology means every assignment satisfying the hypotheses
	// satisfies the conclusion.
	Tautology
	// Falsifiable means a countermodel exists.
	Falsifiable
)

func (k ResultKind) String() string {
	switch k {
	case Skipped:
		return "Skipped"
	case Tautology:
		return "Tautology"
	case Falsifiable:
		return "Falsifiable"
	default:
		return "?"
	}
}

// Report is the outcome of auditing one assertion.
type Report struct {
	Result       ResultKind
	Countermodel Assignment // valid for Falsifiable
}

// atomLimit caps truth-table enumeration at 2^atomLimit assignments.
const atomLimit = 16

// Auditor decodes token sequences over one build context's skeleton and
// judges assertions against every boolean assignment.
type Auditor struct {
	sk       *wff.Skeleton
	meanings map[symbols.ID]Meaning
}

// NewAuditor validates the declared meanings against the skeleton's
// connective table. Every meaning must name a declared connective of the
// matching arity.
func NewAuditor(sk *wff.Skeleton, meanings map[string]string) (*Auditor, error) {
	byID := make(map[symbols.ID]Meaning, len(meanings))
	for name, word := range meanings {
		conn, ok := sk.Connective(name)
		if !ok {
			return nil, fmt.Errorf("meaning declared for unknown connective %q", name)
		}
		m, ok := ParseMeaning(word)
		if !ok {
			return nil, fmt.Errorf("connective %q: unknown meaning %q (want implies, not, and, or, iff)", name, word)
		}
		if m.Arity() != conn.Arity {
			return nil, fmt.Errorf("connective %q: meaning %q wants arity %d, connective has %d",
				name, word, m.Arity(), conn.Arity)
		}
		byID[conn.ID] = m
	}
	return &Auditor{sk: sk, meanings: byID}, nil
}

// CheckAssertion judges one assertion: hypotheses and conclusion in
// compiled token form. The judged formula is the hypotheses curried over
// the conclusion; an assertion mentioning any connective without a
// meaning is Skipped, never flagged.
func (a *Auditor) CheckAssertion(hyps []wff.TokenSeq, conclusion wff.TokenSeq) Report {
	obligation, ok := a.decode(conclusion)
	if !ok {
		return Report{Result: Skipped}
	}
	for i := len(hyps) - 1; i >= 0; i-- {
		hyp, ok := a.decode(hyps[i])
		if !ok {
			return Report{Result: Skipped}
		}
		obligation = Implies(hyp, obligation)
	}
	if len(Atoms(obligation)) > atomLimit {
		return Report{Result: Skipped}
	}
	if env, found := Countermodel(obligation); found {
		return Report{Result: Falsifiable, Countermodel: env}
	}
	return Report{Result: Tautology}
}

// decode rebuilds a Prop from a prefix token sequence. ok is false as
// soon as a token falls outside the meaningful fragment.
func (a *Auditor) decode(seq wff.TokenSeq) (Prop, bool) {
	if len(seq) == 1 {
		if v, ok := a.sk.VariableByID(seq[0]); ok {
			return Atom(v.Name), true
		}
	}
	conn, args, ok := a.sk.Subterms(seq)
	if !ok {
		return nil, false
	}
	m, ok := a.meanings[conn.ID]
	if !ok {
		return nil, false
	}
	operands := make([]Prop, 0, len(args))
	for _, arg := range args {
		p, ok := a.decode(arg)
		if !ok {
			return nil, false
		}
		operands = append(operands, p)
	}
	if m == Negation {
		return Not(operands[0]), true
	}
	return BinExpr{Op: m, Left: operands[0], Right: operands[1]}, true
}
