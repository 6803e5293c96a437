// Package hilbert ships the propositional calculus package: the three
// Łukasiewicz axiom schemes, modus ponens, and the standard derived
// lemmas about implication and negation, each carried with the script
// that proves it.
package hilbert

import (
	"github.com/epistemic-frontier/metamath-logic/internal"
	"github.com/epistemic-frontier/metamath-logic/internal/proof"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// Name is the package name used in artifacts and as an import key.
const Name = "hilbert"

// Spec returns the authored package. The skeleton declares implication,
// negation, conjunction and the biconditional as primitives; disjunction
// is a definition macro, so it never reaches canonical token streams.
func Spec() internal.PackageSpec {
	return internal.PackageSpec{
		Name:        Name,
		Typecode:    "wff",
		Variables:   []string{"ph", "ps", "ch", "th", "ta"},
		Implication: "->",
		SyntaxRules: true,
		Connectives: []internal.ConnectiveSpec{
			{Label: "wi", Name: "->", Arity: 2, Meaning: "implies"},
			{Label: "wn", Name: "-.", Arity: 1, Meaning: "not"},
			{Label: "wa", Name: "/\\", Arity: 2, Meaning: "and"},
			{Label: "wb", Name: "<->", Arity: 2, Meaning: "iff"},
		},
		Aliases: []internal.AliasSpec{
			{Raw: "φ", Canonical: "ph"},
			{Raw: "ψ", Canonical: "ps"},
			{Raw: "χ", Canonical: "ch"},
			{Raw: "θ", Canonical: "th"},
			{Raw: "τ", Canonical: "ta"},
			{Raw: "→", Canonical: "->"},
			{Raw: "¬", Canonical: "-."},
			{Raw: "∧", Canonical: "/\\"},
			{Raw: "↔", Canonical: "<->"},
		},
		Definitions: definitions(),
		Axioms:      axioms(),
		Rules:       rules(),
		Lemmas:      lemmas(),
		Theorems:    theorems(),
		Exports: []string{
			"ax-1", "ax-2", "ax-3",
			"wi", "wn", "wa", "wb",
			"ax-mp",
			"a1i", "a2i", "mpd", "mpi", "id", "syl", "a1d", "com12",
			"imim2i", "con4i", "pm2.21", "notnotr", "notnot",
			"con2i", "con1i", "con3i", "simplim",
			"mto", "olc", "exmid", "linearity",
		},
	}
}

func axioms() []internal.AssertionSpec {
	return []internal.AssertionSpec{
		// Simp: an antecedent may be discarded.
		{Label: "ax-1", Conclusion: internal.Text("( ph -> ( ps -> ph ) )")},
		// Frege: implication distributes over itself.
		{Label: "ax-2", Conclusion: internal.Text("( ( ph -> ( ps -> ch ) ) -> ( ( ph -> ps ) -> ( ph -> ch ) ) )")},
		// Transp: contraposition.
		{Label: "ax-3", Conclusion: internal.Text("( ( -. ph -> -. ps ) -> ( ps -> ph ) )")},
	}
}

func rules() []internal.AssertionSpec {
	return []internal.AssertionSpec{
		{
			Label: "ax-mp",
			Hypotheses: []internal.Formula{
				internal.Text("ph"),
				internal.Text("( ph -> ps )"),
			},
			Conclusion:  internal.Text("ps"),
			Composition: true,
		},
	}
}

func definitions() []internal.DefinitionSpec {
	return []internal.DefinitionSpec{
		{
			Label:  "df-or",
			Name:   `\/`,
			Params: []string{"ph", "ps"},
			Body:   internal.Text("( -. ph -> ps )"),
			Equivalence: internal.Tree(wff.App("<->",
				wff.App(`\/`, wff.V("ph"), wff.V("ps")),
				wff.App("->", wff.App("-.", wff.V("ph")), wff.V("ps")),
			)),
		},
	}
}

// lemmas lists the derived assertions in dependency order: every script
// references only axioms, ax-mp, or lemmas earlier in the slice.
func lemmas() []internal.LemmaSpec {
	return []internal.LemmaSpec{
		// Inference form of ax-1.
		{
			Label:      "a1i",
			Hypotheses: []internal.Formula{internal.Text("ph")},
			Conclusion: internal.Text("( ps -> ph )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("ax-1", proof.Identity([]string{"ph", "ps"})).
				Ref("ax-mp", proof.Subst{"ph": "ph", "ps": "( ps -> ph )"}).
				Build(),
		},
		// Inference form of ax-2.
		{
			Label:      "a2i",
			Hypotheses: []internal.Formula{internal.Text("( ph -> ( ps -> ch ) )")},
			Conclusion: internal.Text("( ( ph -> ps ) -> ( ph -> ch ) )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("ax-2", proof.Identity([]string{"ph", "ps", "ch"})).
				Ref("ax-mp", proof.Subst{
					"ph": "( ph -> ( ps -> ch ) )",
					"ps": "( ( ph -> ps ) -> ( ph -> ch ) )",
				}).
				Build(),
		},
		// Modus ponens under a common antecedent.
		{
			Label: "mpd",
			Hypotheses: []internal.Formula{
				internal.Text("( ph -> ps )"),
				internal.Text("( ph -> ( ps -> ch ) )"),
			},
			Conclusion: internal.Text("( ph -> ch )"),
			Script: proof.NewScript().
				Hyp(0).
				Hyp(1).
				Ref("a2i", proof.Identity([]string{"ph", "ps", "ch"})).
				Ref("ax-mp", proof.Subst{"ph": "( ph -> ps )", "ps": "( ph -> ch )"}).
				Build(),
		},
		// A detached minor premise feeds a nested implication.
		{
			Label: "mpi",
			Hypotheses: []internal.Formula{
				internal.Text("ps"),
				internal.Text("( ph -> ( ps -> ch ) )"),
			},
			Conclusion: internal.Text("( ph -> ch )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("a1i", proof.Subst{"ph": "ps", "ps": "ph"}).
				Hyp(1).
				Ref("mpd", proof.Identity([]string{"ph", "ps", "ch"})).
				Build(),
		},
		// id is the classic five-step derivation from ax-1 and ax-2; it
		// is written with explicit Compose steps to pin the positional
		// modus ponens form.
		{
			Label:      "id",
			Conclusion: internal.Text("( ph -> ph )"),
			Script: proof.NewScript().
				Ref("ax-1", proof.Subst{"ph": "ph", "ps": "( ph -> ph )"}).
				Ref("ax-2", proof.Subst{"ph": "ph", "ps": "( ph -> ph )", "ch": "ph"}).
				Compose(0, 1, "ax-mp").
				Ref("ax-1", proof.Subst{"ph": "ph", "ps": "ph"}).
				Compose(1, 0, "ax-mp").
				Build(),
		},
		// Syllogism.
		{
			Label: "syl",
			Hypotheses: []internal.Formula{
				internal.Text("( ph -> ps )"),
				internal.Text("( ps -> ch )"),
			},
			Conclusion: internal.Text("( ph -> ch )"),
			Script: proof.NewScript().
				Hyp(0).
				Hyp(1).
				Ref("a1i", proof.Subst{"ph": "( ps -> ch )", "ps": "ph"}).
				Ref("mpd", proof.Identity([]string{"ph", "ps", "ch"})).
				Build(),
		},
		// Deduction form of ax-1.
		{
			Label:      "a1d",
			Hypotheses: []internal.Formula{internal.Text("( ph -> ps )")},
			Conclusion: internal.Text("( ph -> ( ch -> ps ) )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("ax-1", proof.Subst{"ph": "ps", "ps": "ch"}).
				Ref("syl", proof.Subst{"ph": "ph", "ps": "ps", "ch": "( ch -> ps )"}).
				Build(),
		},
		// Commutation of antecedents.
		{
			Label:      "com12",
			Hypotheses: []internal.Formula{internal.Text("( ph -> ( ps -> ch ) )")},
			Conclusion: internal.Text("( ps -> ( ph -> ch ) )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("a2i", proof.Identity([]string{"ph", "ps", "ch"})).
				Ref("ax-1", proof.Subst{"ph": "ps", "ps": "ph"}).
				Ref("syl", proof.Subst{"ph": "ps", "ps": "( ph -> ps )", "ch": "( ph -> ch )"}).
				Build(),
		},
		// A consequent may be weakened inside an implication.
		{
			Label:      "imim2i",
			Hypotheses: []internal.Formula{internal.Text("( ph -> ps )")},
			Conclusion: internal.Text("( ( ch -> ph ) -> ( ch -> ps ) )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("a1i", proof.Subst{"ph": "( ph -> ps )", "ps": "ch"}).
				Ref("a2i", proof.Subst{"ph": "ch", "ps": "ph", "ch": "ps"}).
				Build(),
		},
		// Inference form of ax-3.
		{
			Label:      "con4i",
			Hypotheses: []internal.Formula{internal.Text("( -. ph -> -. ps )")},
			Conclusion: internal.Text("( ps -> ph )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("ax-3", proof.Identity([]string{"ph", "ps"})).
				Ref("ax-mp", proof.Subst{"ph": "( -. ph -> -. ps )", "ps": "( ps -> ph )"}).
				Build(),
		},
		// Ex falso: a negated antecedent implies anything.
		{
			Label:      "pm2.21",
			Conclusion: internal.Text("( -. ph -> ( ph -> ps ) )"),
			Script: proof.NewScript().
				Ref("ax-1", proof.Subst{"ph": "-. ph", "ps": "-. ps"}).
				Ref("ax-3", proof.Subst{"ph": "ps", "ps": "ph"}).
				Ref("syl", proof.Subst{
					"ph": "-. ph",
					"ps": "( -. ps -> -. ph )",
					"ch": "( ph -> ps )",
				}).
				Build(),
		},
		// Contraction of a repeated antecedent.
		{
			Label:      "pm2.43i",
			Hypotheses: []internal.Formula{internal.Text("( ph -> ( ph -> ps ) )")},
			Conclusion: internal.Text("( ph -> ps )"),
			Script: proof.NewScript().
				Ref("id", proof.Subst{"ph": "ph"}).
				Hyp(0).
				Ref("mpd", proof.Subst{"ph": "ph", "ps": "ph", "ch": "ps"}).
				Build(),
		},
		// Double negation elimination.
		{
			Label:      "notnotr",
			Conclusion: internal.Text("( -. -. ph -> ph )"),
			Script: proof.NewScript().
				Ref("pm2.21", proof.Subst{"ph": "-. ph", "ps": "-. -. -. ph"}).
				Ref("ax-3", proof.Subst{"ph": "ph", "ps": "-. -. ph"}).
				Ref("syl", proof.Subst{
					"ph": "-. -. ph",
					"ps": "( -. ph -> -. -. -. ph )",
					"ch": "( -. -. ph -> ph )",
				}).
				Ref("pm2.43i", proof.Subst{"ph": "-. -. ph", "ps": "ph"}).
				Build(),
		},
		// Double negation introduction.
		{
			Label:      "notnot",
			Conclusion: internal.Text("( ph -> -. -. ph )"),
			Script: proof.NewScript().
				Ref("notnotr", proof.Subst{"ph": "-. ph"}).
				Ref("con4i", proof.Subst{"ph": "-. -. ph", "ps": "ph"}).
				Build(),
		},
		// Contraposition, negated-consequent form.
		{
			Label:      "con2i",
			Hypotheses: []internal.Formula{internal.Text("( ph -> -. ps )")},
			Conclusion: internal.Text("( ps -> -. ph )"),
			Script: proof.NewScript().
				Ref("notnotr", proof.Subst{"ph": "ph"}).
				Hyp(0).
				Ref("syl", proof.Subst{"ph": "-. -. ph", "ps": "ph", "ch": "-. ps"}).
				Ref("con4i", proof.Subst{"ph": "-. ph", "ps": "ps"}).
				Build(),
		},
		// Contraposition, negated-antecedent form.
		{
			Label:      "con1i",
			Hypotheses: []internal.Formula{internal.Text("( -. ph -> ps )")},
			Conclusion: internal.Text("( -. ps -> ph )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("notnot", proof.Subst{"ph": "ps"}).
				Ref("syl", proof.Subst{"ph": "-. ph", "ps": "ps", "ch": "-. -. ps"}).
				Ref("con4i", proof.Subst{"ph": "ph", "ps": "-. ps"}).
				Build(),
		},
		// Contraposition.
		{
			Label:      "con3i",
			Hypotheses: []internal.Formula{internal.Text("( ph -> ps )")},
			Conclusion: internal.Text("( -. ps -> -. ph )"),
			Script: proof.NewScript().
				Hyp(0).
				Ref("notnot", proof.Subst{"ph": "ps"}).
				Ref("syl", proof.Subst{"ph": "ph", "ps": "ps", "ch": "-. -. ps"}).
				Ref("con2i", proof.Subst{"ph": "ph", "ps": "-. ps"}).
				Build(),
		},
		// A negated implication yields its antecedent.
		{
			Label:      "simplim",
			Conclusion: internal.Text("( -. ( ph -> ps ) -> ph )"),
			Script: proof.NewScript().
				Ref("pm2.21", proof.Identity([]string{"ph", "ps"})).
				Ref("con1i", proof.Subst{"ph": "ph", "ps": "( ph -> ps )"}).
				Build(),
		},
		// Peirce's law needs either a case split or a longer detour
		// through con1i than this package carries; parked as a stub.
		{
			Label:      "peirce",
			Conclusion: internal.Text("( ( ( ph -> ps ) -> ph ) -> ph )"),
			Stub:       true,
		},
	}
}

func theorems() []internal.LemmaSpec {
	return []internal.LemmaSpec{
		// Modus tollens.
		{
			Label: "mto",
			Hypotheses: []internal.Formula{
				internal.Text("-. ps"),
				internal.Text("( ph -> ps )"),
			},
			Conclusion: internal.Text("-. ph"),
			Script: proof.NewScript().
				Hyp(0).
				Hyp(1).
				Ref("con3i", proof.Identity([]string{"ph", "ps"})).
				Ref("ax-mp", proof.Subst{"ph": "-. ps", "ps": "-. ph"}).
				Build(),
		},
		// Or-introduction on the right; the conclusion is authored
		// through the df-or macro and expands to ( ph -> ( -. ps -> ph ) ).
		{
			Label: "olc",
			Conclusion: internal.Tree(wff.App("->",
				wff.V("ph"),
				wff.App(`\/`, wff.V("ps"), wff.V("ph")),
			)),
			Script: proof.NewScript().
				Ref("ax-1", proof.Subst{"ph": "ph", "ps": "-. ps"}).
				Build(),
		},
		// Excluded middle: ( ph \/ -. ph ) expands to ( -. ph -> -. ph ).
		{
			Label: "exmid",
			Conclusion: internal.Tree(wff.App(`\/`,
				wff.V("ph"),
				wff.App("-.", wff.V("ph")),
			)),
			Script: proof.NewScript().
				Ref("id", proof.Subst{"ph": "-. ph"}).
				Build(),
		},
		// The worked example: from a negated implication, the converse
		// implication. The conclusion text uses the alias spellings to
		// keep the name-mapping sidecar populated.
		{
			Label:      "linearity",
			Conclusion: internal.Text("( ¬ ( φ → ψ ) → ( ψ → φ ) )"),
			Script: proof.NewScript().
				Ref("simplim", proof.Identity([]string{"ph", "ps"})).
				Ref("a1d", proof.Subst{"ph": "-. ( ph -> ps )", "ps": "ph", "ch": "ps"}).
				Build(),
		},
	}
}
