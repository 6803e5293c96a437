package proof

import (
	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// SynthesizeFloating derives the minimal floating hypotheses of an
// assertion: one per distinct schema variable occurring in the essential
// hypotheses or the conclusion, in first-occurrence order scanning
// essentials first. Labels are derived from the assertion label and the
// variable spelling.
func SynthesizeFloating(label string, essential []Hypothesis, conclusion wff.TokenSeq, sk *wff.Skeleton) []Hypothesis {
	var floats []Hypothesis
	seen := make(map[symbols.ID]bool)

	scan := func(seq wff.TokenSeq) {
		for _, id := range seq {
			decl, ok := sk.VariableByID(id)
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			typecode, _ := sk.Interner().Lookup(decl.Typecode)
			floats = append(floats, Hypothesis{
				Label:    label + "." + decl.Name,
				Kind:     Floating,
				Typecode: typecode,
				Tokens:   wff.TokenSeq{id},
			})
		}
	}

	for _, h := range essential {
		scan(h.Tokens)
	}
	scan(conclusion)
	return floats
}
