package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/proof"
	"github.com/epistemic-frontier/metamath-logic/internal/semantics"
	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/trie"
	"github.com/epistemic-frontier/metamath-logic/internal/types"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// Provenance records which assembly phase produced an entry.
type Provenance int

const (
	ProvAxiom Provenance = iota
	ProvRule
	ProvDefinition
	ProvLemma
	ProvTheorem
)

func (p Provenance) String() string {
	switch p {
	case ProvAxiom:
		return "axiom"
	case ProvRule:
		return "rule"
	case ProvDefinition:
		return "definition"
	case ProvLemma:
		return "lemma"
	case ProvTheorem:
		return "theorem"
	default:
		return "unknown"
	}
}

// Entry is one assembled assertion with its provenance. Stub entries
// carry no proof and are barred from export; failed entries keep their
// label claimed but drop out of the artifact and the reference set.
// Syntax marks the synthesized connective rules, which declare grammar
// rather than state anything and are exempt from the semantic audit.
type Entry struct {
	Assertion  proof.Assertion
	Provenance Provenance
	Stub       bool
	Failed     bool
	Syntax     bool
	Script     proof.Script
	Lowered    *proof.Lowered
}

// Package is the assembled result of one spec: ordered entries, the
// validated export subset, the name mapping, and the collected issues.
type Package struct {
	Name     string
	Entries  []Entry
	Exported []string
	Mappings []symbols.Mapping
	Issues   []types.Issue
	Imports  []string

	byLabel      map[string]int
	skeleton     *wff.Skeleton
	compiler     *wff.Compiler
	compositions map[string]bool
}

// Lookup finds an entry by label.
func (p *Package) Lookup(label string) (Entry, bool) {
	idx, ok := p.byLabel[label]
	if !ok {
		return Entry{}, false
	}
	return p.Entries[idx], true
}

// Skeleton exposes the build context's language skeleton, for rendering
// and graph output.
func (p *Package) Skeleton() *wff.Skeleton {
	return p.skeleton
}

// Compiler exposes the build context's compiler.
func (p *Package) Compiler() *wff.Compiler {
	return p.compiler
}

// Failed lists labels whose assembly failed, in assembly order.
func (p *Package) Failed() []string {
	var out []string
	for _, e := range p.Entries {
		if e.Failed {
			out = append(out, e.Assertion.Label)
		}
	}
	return out
}

// ExportedSet renders the exported assertions in spelling form, keyed
// by label, for binding into downstream build contexts. Composition
// rules keep their flag so downstream proofs may compose through them.
func (p *Package) ExportedSet() map[string]proof.Imported {
	in := p.skeleton.Interner()
	out := make(map[string]proof.Imported, len(p.Exported))
	for _, label := range p.Exported {
		e, ok := p.Lookup(label)
		if !ok {
			continue
		}
		imp := proof.Export(e.Assertion, in)
		imp.Composition = p.compositions[label]
		out[label] = imp
	}
	return out
}

// Artifact renders the package IR artifact. Statements keep assembly
// order; failed and stub entries are omitted.
func (p *Package) Artifact() artifact.Artifact {
	in := p.skeleton.Interner()
	a := artifact.Artifact{
		Package:    p.Name,
		Imports:    p.Imports,
		Statements: make([]artifact.Statement, 0, len(p.Entries)),
		Exported:   p.Exported,
	}
	for _, e := range p.Entries {
		if e.Failed || e.Stub {
			continue
		}
		st := artifact.Statement{
			Label:       e.Assertion.Label,
			Kind:        artifactKind(e.Provenance),
			Conclusion:  e.Assertion.Conclusion.Spellings(in),
			Composition: p.compositions[e.Assertion.Label],
		}
		for _, h := range e.Assertion.Hypotheses() {
			st.Hypotheses = append(st.Hypotheses, artifact.Hyp{
				Label:    h.Label,
				Kind:     hypKind(h.Kind),
				Typecode: in.Name(h.Typecode),
				Tokens:   h.Tokens.Spellings(in),
			})
		}
		if e.Lowered != nil {
			st.Proof = e.Lowered.Labels()
		}
		a.Statements = append(a.Statements, st)
	}
	return a
}

// NameMapping renders the alias-resolution sidecar of this build.
func (p *Package) NameMapping() artifact.NameMapping {
	return artifact.NameMapping{Package: p.Name, Rows: p.Mappings}
}

// artifactKind maps assembly provenance onto the artifact's fixed kind
// vocabulary: rules emit as axioms, lemmas as theorems.
func artifactKind(p Provenance) string {
	switch p {
	case ProvAxiom, ProvRule:
		return artifact.KindAxiom
	case ProvDefinition:
		return artifact.KindDefinition
	default:
		return artifact.KindTheorem
	}
}

func hypKind(k proof.HypKind) string {
	if k == proof.Floating {
		return artifact.HypFloating
	}
	return artifact.HypEssential
}

// Assembler assembles package specs. Policy controls canonical
// self-registration in the lexicon; Rules overrides issue severities
// per rule name.
type Assembler struct {
	policy symbols.Policy
	rules  map[string]types.ConfigRule
}

// NewAssembler creates an assembler with the given lexicon policy and
// severity overrides.
func NewAssembler(policy symbols.Policy, rules map[string]types.ConfigRule) *Assembler {
	return &Assembler{policy: policy, rules: rules}
}

// Assemble builds one package inside a fresh build context. The imports
// map holds upstream exported assertions keyed by label, in spelling
// form. Export policy violations and broken language declarations are
// fatal; per-lemma compile and lowering failures are collected as
// issues and assembly continues.
func (asm *Assembler) Assemble(spec PackageSpec, imports map[string]proof.Imported) (*Package, error) {
	in := symbols.NewInterner()
	sk, err := wff.NewSkeleton(in, spec.Typecode)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", spec.Name, err)
	}
	for _, c := range spec.Connectives {
		if err := sk.DeclareConnective(c.Label, c.Name, c.Arity); err != nil {
			return nil, fmt.Errorf("package %s: %w", spec.Name, err)
		}
	}
	for _, v := range spec.Variables {
		if err := sk.DeclareVariable(v); err != nil {
			return nil, fmt.Errorf("package %s: %w", spec.Name, err)
		}
	}
	if spec.Implication != "" {
		if err := sk.SetImplication(spec.Implication); err != nil {
			return nil, fmt.Errorf("package %s: %w", spec.Name, err)
		}
	}
	var auditor *semantics.Auditor
	if meanings := declaredMeanings(spec.Connectives); len(meanings) > 0 {
		aud, err := semantics.NewAuditor(sk, meanings)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", spec.Name, err)
		}
		auditor = aud
	}
	lex := symbols.NewLexicon(in, asm.policy)
	for _, a := range spec.Aliases {
		if err := lex.RegisterAlias(a.Raw, a.Canonical); err != nil {
			return nil, fmt.Errorf("package %s: %w", spec.Name, err)
		}
	}
	comp := wff.NewCompiler(sk, lex)

	pkg := &Package{
		Name:     spec.Name,
		Imports:  spec.Imports,
		byLabel:  make(map[string]int),
		skeleton: sk,
		compiler: comp,
	}

	// labels tracks every claimed label with a short provenance note;
	// a second claim is a fatal DuplicateLabel.
	labels := make(map[string]string)
	register := func(label, what string) error {
		if prior, ok := labels[label]; ok {
			return &ExportPolicyError{Kind: DuplicateLabel, Label: label, Prior: prior}
		}
		labels[label] = what
		return nil
	}

	// Imported labels claim their names first: local declarations may
	// not shadow them.
	available := make(map[string]proof.Assertion, len(imports))
	compositions := make(map[string]bool)
	importLabels := make([]string, 0, len(imports))
	for label := range imports {
		importLabels = append(importLabels, label)
	}
	sort.Strings(importLabels)
	for _, label := range importLabels {
		bound, err := proof.Bind(imports[label], lex, sk)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", spec.Name, err)
		}
		if err := register(label, "imported"); err != nil {
			return nil, err
		}
		available[label] = bound
		if imports[label].Composition {
			compositions[label] = true
		}
	}

	defs := make(map[string]wff.Definition)

	formulaTree := func(f Formula) (wff.Expr, error) {
		if f.Expr != nil {
			return f.Expr, nil
		}
		return wff.Parse(f.Text, sk, lex)
	}

	compileFormula := func(f Formula) (wff.TokenSeq, error) {
		tree, err := formulaTree(f)
		if err != nil {
			return nil, err
		}
		expanded, err := wff.ExpandMacros(tree, defs)
		if err != nil {
			return nil, err
		}
		return comp.Compile(expanded)
	}

	buildAssertion := func(label string, hyps []Formula, conclusion Formula) (proof.Assertion, error) {
		labelID, err := in.Intern(label, symbols.KindLabel)
		if err != nil {
			return proof.Assertion{}, err
		}
		essential := make([]proof.Hypothesis, 0, len(hyps))
		for i, hf := range hyps {
			tokens, err := compileFormula(hf)
			if err != nil {
				return proof.Assertion{}, fmt.Errorf("hypothesis %d: %w", i+1, err)
			}
			essential = append(essential, proof.Hypothesis{
				Label:    fmt.Sprintf("%s.%d", label, i+1),
				Kind:     proof.Essential,
				Typecode: sk.TypecodeID(),
				Tokens:   tokens,
			})
		}
		tokens, err := compileFormula(conclusion)
		if err != nil {
			return proof.Assertion{}, err
		}
		a := proof.Assertion{Label: label, LabelID: labelID, Essential: essential, Conclusion: tokens}
		a.Floating = proof.SynthesizeFloating(label, essential, tokens, sk)
		return a, nil
	}

	index := trie.New()
	pkg.compositions = compositions

	addEntry := func(e Entry) {
		pkg.byLabel[e.Assertion.Label] = len(pkg.Entries)
		pkg.Entries = append(pkg.Entries, e)
		if !e.Failed && !e.Stub {
			available[e.Assertion.Label] = e.Assertion
			index.Insert(assertionShape(e.Assertion), e.Assertion.Label)
		}
	}

	report := func(iss types.Issue) {
		if cfg, ok := asm.rules[iss.Rule]; ok {
			iss.Severity = cfg.Severity
		}
		if iss.Severity == types.SeverityOff {
			return
		}
		pkg.Issues = append(pkg.Issues, iss)
	}

	// Phase: axioms. A broken axiom breaks the package language, so
	// compile failures here are fatal.
	for _, a := range spec.Axioms {
		if err := register(a.Label, "axiom"); err != nil {
			return nil, err
		}
		assertion, err := buildAssertion(a.Label, a.Hypotheses, a.Conclusion)
		if err != nil {
			return nil, fmt.Errorf("package %s: axiom %s: %w", spec.Name, a.Label, err)
		}
		if a.Composition {
			compositions[a.Label] = true
		}
		addEntry(Entry{Assertion: assertion, Provenance: ProvAxiom})
	}

	// Phase: rules. Syntax rules first (one per connective, floats over
	// the leading declared variables), then the declared rule block.
	if spec.SyntaxRules {
		vars := sk.Variables()
		for _, conn := range sk.Connectives() {
			if err := register(conn.Label, "syntax rule"); err != nil {
				return nil, err
			}
			if conn.Arity > len(vars) {
				return nil, fmt.Errorf("package %s: syntax rule %s needs %d variables, only %d declared",
					spec.Name, conn.Label, conn.Arity, len(vars))
			}
			labelID, err := in.Intern(conn.Label, symbols.KindLabel)
			if err != nil {
				return nil, fmt.Errorf("package %s: %w", spec.Name, err)
			}
			seq := wff.TokenSeq{conn.ID}
			for i := 0; i < conn.Arity; i++ {
				seq = append(seq, vars[i].ID)
			}
			a := proof.Assertion{Label: conn.Label, LabelID: labelID, Conclusion: seq}
			a.Floating = proof.SynthesizeFloating(conn.Label, nil, seq, sk)
			addEntry(Entry{Assertion: a, Provenance: ProvRule, Syntax: true})
		}
	}
	for _, r := range spec.Rules {
		if err := register(r.Label, "rule"); err != nil {
			return nil, err
		}
		assertion, err := buildAssertion(r.Label, r.Hypotheses, r.Conclusion)
		if err != nil {
			return nil, fmt.Errorf("package %s: rule %s: %w", spec.Name, r.Label, err)
		}
		if r.Composition {
			compositions[r.Label] = true
		}
		addEntry(Entry{Assertion: assertion, Provenance: ProvRule})
	}

	// Phase: definitions. The macro registers before the equivalence
	// compiles, so an equivalence may mention its own macro.
	for _, d := range spec.Definitions {
		if err := register(d.Label, "definition"); err != nil {
			return nil, err
		}
		if d.Name != "" {
			if _, ok := in.Lookup(d.Name); ok {
				return nil, fmt.Errorf("package %s: definition %s: macro name %q collides with a declared symbol",
					spec.Name, d.Label, d.Name)
			}
			body, err := formulaTree(d.Body)
			if err != nil {
				return nil, fmt.Errorf("package %s: definition %s: %w", spec.Name, d.Label, err)
			}
			defs[d.Name] = wff.Definition{Label: d.Label, Name: d.Name, Params: d.Params, Body: body}
		}
		if d.Equivalence.Text == "" && d.Equivalence.Expr == nil {
			continue
		}
		assertion, err := buildAssertion(d.Label, nil, d.Equivalence)
		if err != nil {
			return nil, fmt.Errorf("package %s: definition %s: %w", spec.Name, d.Label, err)
		}
		addEntry(Entry{Assertion: assertion, Provenance: ProvDefinition})
	}

	// Phases: lemmas, then theorems. Failures here are batched.
	lowerer := &proof.Lowerer{
		Compiler: comp,
		Lookup: func(label string) (proof.Assertion, bool) {
			a, ok := available[label]
			return a, ok
		},
		Composition: func(label string) bool { return compositions[label] },
		Suggest:     func(miss string) string { return suggestLabel(available, miss) },
	}

	lowerBatch := func(specs []LemmaSpec, prov Provenance) error {
		for _, l := range specs {
			if err := register(l.Label, prov.String()); err != nil {
				return err
			}
			assertion, err := buildAssertion(l.Label, l.Hypotheses, l.Conclusion)
			if err != nil {
				report(issueFromError(spec.Name, l.Label, err))
				addEntry(Entry{Assertion: proof.Assertion{Label: l.Label}, Provenance: prov, Failed: true})
				continue
			}
			if l.Stub {
				addEntry(Entry{Assertion: assertion, Provenance: prov, Stub: true})
				continue
			}
			if prior, ok := index.Lookup(assertionShape(assertion)); ok {
				report(types.Issue{
					Rule:     "redundant-assertion",
					Package:  spec.Name,
					Label:    l.Label,
					Step:     -1,
					Severity: types.SeverityWarning,
					Message:  fmt.Sprintf("restates %q token for token", prior),
				})
			}
			lowered, err := lowerer.Lower(assertion, l.Script)
			if err != nil {
				report(issueFromError(spec.Name, l.Label, err))
				addEntry(Entry{Assertion: assertion, Provenance: prov, Script: l.Script, Failed: true})
				continue
			}
			addEntry(Entry{Assertion: assertion, Provenance: prov, Script: l.Script, Lowered: lowered})
		}
		return nil
	}
	if err := lowerBatch(spec.Lemmas, ProvLemma); err != nil {
		return nil, err
	}
	if err := lowerBatch(spec.Theorems, ProvTheorem); err != nil {
		return nil, err
	}

	// Phase: semantic audit. Assertions inside the meaningful
	// propositional fragment must hold under every boolean assignment.
	// Stubs get audited too; with no proof, this is their only check.
	if auditor != nil {
		for _, e := range pkg.Entries {
			if e.Failed || e.Syntax {
				continue
			}
			hyps := make([]wff.TokenSeq, 0, len(e.Assertion.Essential))
			for _, h := range e.Assertion.Essential {
				hyps = append(hyps, h.Tokens)
			}
			rep := auditor.CheckAssertion(hyps, e.Assertion.Conclusion)
			if rep.Result != semantics.Falsifiable {
				continue
			}
			report(types.Issue{
				Rule:     "semantic-audit",
				Package:  spec.Name,
				Label:    e.Assertion.Label,
				Step:     -1,
				Severity: types.SeverityWarning,
				Message:  "not a classical tautology",
				Note:     "countermodel: " + rep.Countermodel.String(),
			})
		}
	}

	// Export validation. Stubs are fatal; failed assertions are dropped
	// from the effective export set with an issue.
	exported := make([]string, 0, len(spec.Exports))
	for _, label := range spec.Exports {
		idx, ok := pkg.byLabel[label]
		if !ok {
			return nil, fmt.Errorf("package %s: export of unknown label %q", spec.Name, label)
		}
		e := pkg.Entries[idx]
		if e.Stub {
			return nil, &ExportPolicyError{Kind: StubExported, Label: label}
		}
		if e.Failed {
			report(types.Issue{
				Rule:     "export-dropped",
				Package:  spec.Name,
				Label:    label,
				Step:     -1,
				Severity: types.SeverityError,
				Message:  "failed assertion dropped from the export set",
			})
			continue
		}
		exported = append(exported, label)
	}
	pkg.Exported = exported
	pkg.Mappings = lex.Mappings()
	return pkg, nil
}

// issueFromError maps a compile or lowering failure onto the issue
// vocabulary, carrying over step, want/got and suggestion fields where
// the error provides them.
func issueFromError(pkgName, label string, err error) types.Issue {
	iss := types.Issue{
		Package:  pkgName,
		Label:    label,
		Step:     -1,
		Severity: types.SeverityError,
		Message:  err.Error(),
	}
	var lerr *proof.LoweringError
	var cerr *wff.CompileError
	var rerr *symbols.ResolutionError
	var perr *wff.ParseError
	switch {
	case errors.As(err, &lerr):
		iss.Rule = lerr.Kind.String()
		iss.Step = lerr.Step
		iss.Message = lerr.Msg
		iss.Want = lerr.Want
		iss.Got = lerr.Got
		iss.Suggestion = lerr.Suggestion
	case errors.As(err, &cerr):
		iss.Rule = cerr.Kind.String()
	case errors.As(err, &rerr):
		iss.Rule = "unresolved-spelling"
		iss.Note = rerr.Note
	case errors.As(err, &perr):
		iss.Rule = "parse"
	default:
		iss.Rule = "assembly"
	}
	return iss
}

// declaredMeanings collects the connective meanings of a spec, keyed by
// connective name. Empty meanings stay out.
func declaredMeanings(conns []ConnectiveSpec) map[string]string {
	out := make(map[string]string)
	for _, c := range conns {
		if c.Meaning != "" {
			out[c.Name] = c.Meaning
		}
	}
	return out
}

// shapeSep divides hypothesis segments in redundancy index keys. Real
// token ids are non-negative, so -1 never collides.
const shapeSep = symbols.ID(-1)

// assertionShape flattens the essential hypotheses and the conclusion
// into one key sequence. Two assertions are redundant only when the
// whole shape matches: mpd and mpi share a conclusion but differ in
// hypotheses, and neither restates the other.
func assertionShape(a proof.Assertion) wff.TokenSeq {
	var key wff.TokenSeq
	for _, h := range a.Essential {
		key = append(key, h.Tokens...)
		key = append(key, shapeSep)
	}
	return append(key, a.Conclusion...)
}

// suggestLabel proposes a known label whose normalized form matches the
// missing one. Normalization lowercases and strips separators, so "ax1"
// finds "ax-1". Ties resolve to the lexicographically smallest label.
func suggestLabel(available map[string]proof.Assertion, miss string) string {
	want := normalizeLabel(miss)
	if want == "" {
		return ""
	}
	best := ""
	for label := range available {
		if normalizeLabel(label) != want {
			continue
		}
		if best == "" || label < best {
			best = label
		}
	}
	return best
}

func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
