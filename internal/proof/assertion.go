package proof

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// HypKind distinguishes synthesized typing hypotheses from authored
// assumptions.
type HypKind int

const (
	Floating HypKind = iota
	Essential
)

func (k HypKind) String() string {
	switch k {
	case Floating:
		return "floating"
	case Essential:
		return "essential"
	default:
		return "unknown"
	}
}

// Hypothesis is one hypothesis of an assertion. Floating hypotheses carry
// a single variable token; essential hypotheses carry a full formula.
type Hypothesis struct {
	Label    string
	Kind     HypKind
	Typecode symbols.ID
	Tokens   wff.TokenSeq
}

// Assertion is a context-local statement: synthesized floating
// hypotheses, authored essential hypotheses, and the conclusion.
type Assertion struct {
	Label      string
	LabelID    symbols.ID
	Floating   []Hypothesis
	Essential  []Hypothesis
	Conclusion wff.TokenSeq
}

// SchemaVars lists the assertion's schema variable spellings in floating
// hypothesis order.
func (a Assertion) SchemaVars(in *symbols.Interner) []string {
	out := make([]string, len(a.Floating))
	for i, f := range a.Floating {
		out[i] = in.Name(f.Tokens[0])
	}
	return out
}

// Hypotheses returns floating then essential hypotheses, the order
// artifact records use.
func (a Assertion) Hypotheses() []Hypothesis {
	out := make([]Hypothesis, 0, len(a.Floating)+len(a.Essential))
	out = append(out, a.Floating...)
	out = append(out, a.Essential...)
	return out
}

// ImportedHypothesis is the context-independent spelling form of a
// hypothesis.
type ImportedHypothesis struct {
	Label    string   `json:"label"`
	Kind     HypKind  `json:"kind"`
	Typecode string   `json:"typecode"`
	Tokens   []string `json:"tokens"`
}

// Imported is the read-only view of an exported assertion as upstream
// packages publish it: canonical spellings only, no context-local ids.
// Composition marks rules that downstream Compose steps may cite.
type Imported struct {
	Label       string               `json:"label"`
	Floating    []ImportedHypothesis `json:"floating,omitempty"`
	Essential   []ImportedHypothesis `json:"essential,omitempty"`
	Conclusion  []string             `json:"conclusion"`
	Composition bool                 `json:"composition,omitempty"`
}

// Export renders a context-local assertion into its spelling form.
func Export(a Assertion, in *symbols.Interner) Imported {
	exportHyps := func(hyps []Hypothesis) []ImportedHypothesis {
		if len(hyps) == 0 {
			return nil
		}
		out := make([]ImportedHypothesis, len(hyps))
		for i, h := range hyps {
			out[i] = ImportedHypothesis{
				Label:    h.Label,
				Kind:     h.Kind,
				Typecode: in.Name(h.Typecode),
				Tokens:   h.Tokens.Spellings(in),
			}
		}
		return out
	}
	return Imported{
		Label:      a.Label,
		Floating:   exportHyps(a.Floating),
		Essential:  exportHyps(a.Essential),
		Conclusion: a.Conclusion.Spellings(in),
	}
}

// Bind re-interns an imported view into the local build context. Strict:
// every spelling must already be declared by the local skeleton, so a
// package that references upstream material names its language up front.
func Bind(imp Imported, lex *symbols.Lexicon, sk *wff.Skeleton) (Assertion, error) {
	labelID, err := lex.Interner().Intern(imp.Label, symbols.KindLabel)
	if err != nil {
		return Assertion{}, fmt.Errorf("bind import %q: %w", imp.Label, err)
	}
	bindHyps := func(hyps []ImportedHypothesis) ([]Hypothesis, error) {
		out := make([]Hypothesis, 0, len(hyps))
		for _, h := range hyps {
			typecode, err := lex.Resolve(h.Typecode)
			if err != nil {
				return nil, fmt.Errorf("hypothesis %q: %w", h.Label, err)
			}
			tokens, err := bindTokens(h.Tokens, lex)
			if err != nil {
				return nil, fmt.Errorf("hypothesis %q: %w", h.Label, err)
			}
			if h.Kind == Floating {
				if len(tokens) != 1 {
					return nil, fmt.Errorf("hypothesis %q: floating subject must be a single token", h.Label)
				}
				if _, ok := sk.VariableByID(tokens[0]); !ok {
					return nil, fmt.Errorf("hypothesis %q: %q is not a declared variable", h.Label, h.Tokens[0])
				}
			}
			out = append(out, Hypothesis{Label: h.Label, Kind: h.Kind, Typecode: typecode, Tokens: tokens})
		}
		return out, nil
	}

	floating, err := bindHyps(imp.Floating)
	if err != nil {
		return Assertion{}, fmt.Errorf("bind import %q: %w", imp.Label, err)
	}
	essential, err := bindHyps(imp.Essential)
	if err != nil {
		return Assertion{}, fmt.Errorf("bind import %q: %w", imp.Label, err)
	}
	conclusion, err := bindTokens(imp.Conclusion, lex)
	if err != nil {
		return Assertion{}, fmt.Errorf("bind import %q: %w", imp.Label, err)
	}
	return Assertion{
		Label:      imp.Label,
		LabelID:    labelID,
		Floating:   floating,
		Essential:  essential,
		Conclusion: conclusion,
	}, nil
}

func bindTokens(spellings []string, lex *symbols.Lexicon) (wff.TokenSeq, error) {
	out := make(wff.TokenSeq, 0, len(spellings))
	for _, spelling := range spellings {
		id, err := lex.Resolve(spelling)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
