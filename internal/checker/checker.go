// Package checker is the structural gate over emitted artifacts: a cheap
// well-formedness pass that catches malformed output before anything
// downstream consumes it. It is not a soundness check; proofs are
// validated during lowering.
package checker

import (
	"fmt"

	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

// Finding is one structural defect in an artifact.
type Finding struct {
	Rule   string
	Label  string
	Detail string
}

func (f Finding) String() string {
	if f.Label == "" {
		return fmt.Sprintf("%s: %s", f.Rule, f.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", f.Rule, f.Label, f.Detail)
}

// ImportSet maps upstream package names to their exported labels.
type ImportSet map[string]map[string]bool

// ArtifactChecker validates artifact structure: canonical spellings,
// label uniqueness and ordering, reference visibility, hypothesis
// shapes. Imported labels are registered up front so cross-package
// references resolve.
type ArtifactChecker struct {
	imports ImportSet
}

// NewArtifactChecker creates a checker with an empty import registry.
func NewArtifactChecker() *ArtifactChecker {
	return &ArtifactChecker{imports: make(ImportSet)}
}

// RegisterImport records the exported labels of an upstream package.
func (c *ArtifactChecker) RegisterImport(pkg string, labels ...string) {
	if _, ok := c.imports[pkg]; !ok {
		c.imports[pkg] = make(map[string]bool)
	}
	for _, label := range labels {
		c.imports[pkg][label] = true
	}
}

var statementKinds = map[string]bool{
	artifact.KindAxiom:      true,
	artifact.KindDefinition: true,
	artifact.KindTheorem:    true,
}

// Check walks one artifact and collects structural findings. Statements
// are checked in order; a proof may only cite labels of this statement's
// hypotheses, statements defined earlier, or registered imports.
func (c *ArtifactChecker) Check(art artifact.Artifact) []Finding {
	var found []Finding
	report := func(rule, label, format string, args ...any) {
		found = append(found, Finding{Rule: rule, Label: label, Detail: fmt.Sprintf(format, args...)})
	}

	if art.Package == "" {
		report("package-name", "", "artifact names no package")
	}

	imported := make(map[string]bool)
	for _, pkg := range art.Imports {
		labels, ok := c.imports[pkg]
		if !ok {
			report("unknown-import", "", "imported package %q is not registered", pkg)
			continue
		}
		for label := range labels {
			imported[label] = true
		}
	}

	defined := make(map[string]bool, len(art.Statements))
	for _, st := range art.Statements {
		c.checkStatement(st, defined, imported, report)
		if st.Label != "" {
			defined[st.Label] = true
		}
	}

	for _, label := range art.Exported {
		if !defined[label] {
			report("unknown-export", label, "exported label names no statement")
		}
	}
	return found
}

func (c *ArtifactChecker) checkStatement(st artifact.Statement, defined, imported map[string]bool, report func(rule, label, format string, args ...any)) {
	if st.Label == "" {
		report("label-syntax", "", "statement has no label")
		return
	}
	if !symbols.IsCanonical(st.Label) {
		report("label-syntax", st.Label, "label is not in the canonical alphabet")
	}
	if defined[st.Label] {
		report("duplicate-label", st.Label, "label is declared twice")
	}
	if !statementKinds[st.Kind] {
		report("statement-kind", st.Label, "unknown statement kind %q", st.Kind)
	}

	local := make(map[string]bool, len(st.Hypotheses))
	for _, h := range st.Hypotheses {
		switch h.Kind {
		case artifact.HypFloating:
			if len(h.Tokens) != 1 {
				report("hypothesis-shape", st.Label, "floating hypothesis %q carries %d tokens, wants 1", h.Label, len(h.Tokens))
			}
		case artifact.HypEssential:
		default:
			report("hypothesis-shape", st.Label, "hypothesis %q has unknown kind %q", h.Label, h.Kind)
		}
		if h.Typecode == "" {
			report("hypothesis-shape", st.Label, "hypothesis %q has no typecode", h.Label)
		}
		c.checkTokens(st.Label, h.Tokens, report)
		local[h.Label] = true
	}
	for i := 1; i < len(st.Hypotheses); i++ {
		if st.Hypotheses[i].Kind == artifact.HypFloating && st.Hypotheses[i-1].Kind == artifact.HypEssential {
			report("hypothesis-shape", st.Label, "floating hypotheses must precede essential ones")
			break
		}
	}

	if len(st.Conclusion) == 0 {
		report("conclusion-shape", st.Label, "statement has no conclusion")
	}
	c.checkTokens(st.Label, st.Conclusion, report)

	proved := st.Kind == artifact.KindTheorem
	if proved && len(st.Proof) == 0 {
		report("missing-proof", st.Label, "%s carries no proof", st.Kind)
	}
	if !proved && len(st.Proof) > 0 {
		report("unexpected-proof", st.Label, "%s may not carry a proof", st.Kind)
	}
	for i, ref := range st.Proof {
		if local[ref] || defined[ref] || imported[ref] {
			continue
		}
		report("undefined-reference", st.Label, "proof step %d cites %q, which is neither defined earlier nor imported", i, ref)
	}
}

func (c *ArtifactChecker) checkTokens(label string, tokens []string, report func(rule, label, format string, args ...any)) {
	for _, tok := range tokens {
		if !symbols.IsCanonical(tok) {
			report("token-syntax", label, "token %q is not in the canonical alphabet", tok)
		}
	}
}
