// Package predicate layers universal-quantifier scaffolding over the
// propositional package: the A. constructor, specialization and
// generalization axioms, and the inferences that exercise proofs built
// on imported assertions.
package predicate

import (
	"github.com/epistemic-frontier/metamath-logic/hilbert"
	"github.com/epistemic-frontier/metamath-logic/internal"
	"github.com/epistemic-frontier/metamath-logic/internal/proof"
)

// Name is the package name used in artifacts and as an import key.
const Name = "predicate"

// Spec returns the authored package. The language re-declares the
// propositional connectives so imported statements bind, but emits no
// syntax rules for them: the imported wi wn wa wb already claim those
// labels, and only the quantifier needs a new one.
func Spec() internal.PackageSpec {
	return internal.PackageSpec{
		Name:        Name,
		Typecode:    "wff",
		Variables:   []string{"ph", "ps", "ch", "th", "ta"},
		Implication: "->",
		SyntaxRules: false,
		Imports:     []string{hilbert.Name},
		Connectives: []internal.ConnectiveSpec{
			{Label: "wi", Name: "->", Arity: 2, Meaning: "implies"},
			{Label: "wn", Name: "-.", Arity: 1, Meaning: "not"},
			{Label: "wa", Name: "/\\", Arity: 2, Meaning: "and"},
			{Label: "wb", Name: "<->", Arity: 2, Meaning: "iff"},
			{Label: "wal", Name: "A.", Arity: 1},
		},
		Aliases: []internal.AliasSpec{
			{Raw: "∀", Canonical: "A."},
			{Raw: "φ", Canonical: "ph"},
			{Raw: "→", Canonical: "->"},
		},
		Rules: []internal.AssertionSpec{
			// Syntax rule for the quantifier.
			{Label: "wal", Conclusion: internal.Text("A. ph")},
		},
		Axioms: []internal.AssertionSpec{
			// Specialization: what holds universally holds.
			{Label: "ax-sp", Conclusion: internal.Text("( A. ph -> ph )")},
			// Generalization over the simplified variable-free form.
			{Label: "ax-gen", Conclusion: internal.Text("( ph -> A. ph )")},
		},
		Lemmas: []internal.LemmaSpec{
			// Inference form of specialization; ax-mp arrives by import.
			{
				Label:      "spi",
				Hypotheses: []internal.Formula{internal.Text("A. ph")},
				Conclusion: internal.Text("ph"),
				Script: proof.NewScript().
					Hyp(0).
					Ref("ax-sp", proof.Subst{"ph": "ph"}).
					Ref("ax-mp", proof.Subst{"ph": "A. ph", "ps": "ph"}).
					Build(),
			},
			// Identity on a quantified formula, through the imported id.
			{
				Label:      "alid",
				Conclusion: internal.Text("( A. ph -> A. ph )"),
				Script: proof.NewScript().
					Ref("id", proof.Subst{"ph": "A. ph"}).
					Build(),
			},
		},
		Exports: []string{"wal", "ax-sp", "ax-gen", "spi", "alid"},
	}
}
