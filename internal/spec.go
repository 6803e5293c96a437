package internal

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/epistemic-frontier/metamath-logic/internal/proof"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// Formula is an authored formula: either source text for the parser or
// a pre-built expression tree. Trees may use definition macros; both
// forms pass through macro expansion before compilation.
type Formula struct {
	Text string
	Expr wff.Expr
}

// Text wraps source text as a Formula.
func Text(src string) Formula {
	return Formula{Text: src}
}

// Tree wraps an expression as a Formula.
func Tree(e wff.Expr) Formula {
	return Formula{Expr: e}
}

func (f Formula) describe() string {
	if f.Expr != nil {
		return f.Expr.String()
	}
	return f.Text
}

// ConnectiveSpec declares one connective of the package language.
// Meaning optionally names the classical reading (implies, not, and,
// or, iff) the semantic audit interprets the connective under; empty
// leaves it uninterpreted and exempts formulas using it from the audit.
type ConnectiveSpec struct {
	Label   string
	Name    string
	Arity   int
	Meaning string
}

// AliasSpec maps an authoring spelling onto a canonical one.
type AliasSpec struct {
	Raw       string
	Canonical string
}

// DefinitionSpec declares an authoring macro together with the
// definition record stating its equivalence. The macro body names the
// parameters positionally using declared variable spellings.
type DefinitionSpec struct {
	Label       string
	Name        string
	Params      []string
	Body        Formula
	Equivalence Formula
}

// AssertionSpec declares an axiom or rule: hypotheses and a conclusion
// accepted without proof. Composition marks the rule as usable in
// Compose steps.
type AssertionSpec struct {
	Label       string
	Hypotheses  []Formula
	Conclusion  Formula
	Composition bool
}

// LemmaSpec declares a proved assertion. Stub entries carry no script,
// are skipped by lowering, and are barred from export.
type LemmaSpec struct {
	Label      string
	Hypotheses []Formula
	Conclusion Formula
	Script     proof.Script
	Stub       bool
}

// PackageSpec is the authoring surface of one logical package: the
// language skeleton, its aliases and macros, and the phased assertion
// content. Imports names upstream packages whose exported assertions
// become referencable after binding.
type PackageSpec struct {
	Name        string
	Typecode    string
	Variables   []string
	Connectives []ConnectiveSpec
	Implication string
	SyntaxRules bool
	Aliases     []AliasSpec
	Definitions []DefinitionSpec
	Axioms      []AssertionSpec
	Rules       []AssertionSpec
	Lemmas      []LemmaSpec
	Theorems    []LemmaSpec
	Exports     []string
	Imports     []string
}

// Fingerprint is a deterministic digest of everything that influences
// the assembled result. Two specs with equal fingerprints assemble
// identically given equal upstream artifacts.
func (s PackageSpec) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "name %s\ntypecode %s\nimpl %s\nsyntax %v\n", s.Name, s.Typecode, s.Implication, s.SyntaxRules)
	for _, v := range s.Variables {
		fmt.Fprintf(h, "var %s\n", v)
	}
	for _, c := range s.Connectives {
		fmt.Fprintf(h, "conn %s %s %d %s\n", c.Label, c.Name, c.Arity, c.Meaning)
	}
	for _, a := range s.Aliases {
		fmt.Fprintf(h, "alias %s %s\n", a.Raw, a.Canonical)
	}
	for _, d := range s.Definitions {
		fmt.Fprintf(h, "def %s %s %v %s %s\n", d.Label, d.Name, d.Params, d.Body.describe(), d.Equivalence.describe())
	}
	writeAssertions(h, "axiom", s.Axioms)
	writeAssertions(h, "rule", s.Rules)
	writeLemmas(h, "lemma", s.Lemmas)
	writeLemmas(h, "theorem", s.Theorems)
	for _, e := range s.Exports {
		fmt.Fprintf(h, "export %s\n", e)
	}
	for _, imp := range s.Imports {
		fmt.Fprintf(h, "import %s\n", imp)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func writeAssertions(w io.Writer, kind string, specs []AssertionSpec) {
	for _, a := range specs {
		fmt.Fprintf(w, "%s %s comp=%v\n", kind, a.Label, a.Composition)
		for _, hyp := range a.Hypotheses {
			fmt.Fprintf(w, "  hyp %s\n", hyp.describe())
		}
		fmt.Fprintf(w, "  conc %s\n", a.Conclusion.describe())
	}
}

func writeLemmas(w io.Writer, kind string, specs []LemmaSpec) {
	for _, l := range specs {
		fmt.Fprintf(w, "%s %s stub=%v\n", kind, l.Label, l.Stub)
		for _, hyp := range l.Hypotheses {
			fmt.Fprintf(w, "  hyp %s\n", hyp.describe())
		}
		fmt.Fprintf(w, "  conc %s\n", l.Conclusion.describe())
		for _, step := range l.Script {
			fmt.Fprintf(w, "  step %s\n", step)
		}
	}
}
