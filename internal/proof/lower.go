package proof

import (
	"fmt"
	"sort"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// StepKind tags justification records.
type StepKind int

const (
	StepHyp StepKind = iota
	StepRef
	StepCompose
)

func (k StepKind) String() string {
	switch k {
	case StepHyp:
		return "hyp"
	case StepRef:
		return "ref"
	case StepCompose:
		return "compose"
	default:
		return "unknown"
	}
}

// Justification is the lowered record of one script step: what it
// resolved to, the tokens it produced, and which prior steps' results it
// consumed.
type Justification struct {
	Index  int
	Kind   StepKind
	Label  string
	Result wff.TokenSeq
	Deps   []int
}

// Lowered is a verified proof: the justification list a script lowers to
// when every transition and the terminal check succeed.
type Lowered struct {
	Label      string
	Conclusion wff.TokenSeq
	Steps      []Justification
}

// Labels returns the justification labels in step order, the form the
// artifact records.
func (l *Lowered) Labels() []string {
	out := make([]string, len(l.Steps))
	for i, s := range l.Steps {
		out[i] = s.Label
	}
	return out
}

// Lowerer runs proof scripts through the stack machine of one build
// context.
type Lowerer struct {
	// Compiler compiles substitution text in the local context.
	Compiler *wff.Compiler
	// Lookup resolves labels Ref steps may target: previously assembled
	// assertions and bound imports.
	Lookup func(label string) (Assertion, bool)
	// Composition reports whether a label names a registered composition
	// rule usable as a Compose via.
	Composition func(label string) bool
	// Suggest optionally proposes a near-miss for an unknown label.
	Suggest func(label string) string
}

type stackEntry struct {
	seq    wff.TokenSeq
	origin int
}

// Lower runs the script against the target assertion. On success the
// returned justification list has one record per step; on failure the
// error is a *LoweringError carrying the label and step index.
func (lo *Lowerer) Lower(target Assertion, script Script) (*Lowered, error) {
	var stack []stackEntry
	out := &Lowered{Label: target.Label, Conclusion: target.Conclusion}

	for i, step := range script {
		switch s := step.(type) {
		case Hyp:
			if s.Index < 0 || s.Index >= len(target.Essential) {
				return nil, &LoweringError{
					Label: target.Label, Step: i, Kind: IndexOutOfRange,
					Msg: fmt.Sprintf("hypothesis index %d out of range, lemma has %d", s.Index, len(target.Essential)),
				}
			}
			h := target.Essential[s.Index]
			stack = append(stack, stackEntry{seq: h.Tokens, origin: i})
			out.Steps = append(out.Steps, Justification{Index: i, Kind: StepHyp, Label: h.Label, Result: h.Tokens})

		case Ref:
			ref, ok := lo.Lookup(s.Label)
			if !ok {
				lerr := &LoweringError{
					Label: target.Label, Step: i, Kind: UnresolvedReference,
					Msg: fmt.Sprintf("no assertion labeled %q is visible from this proof", s.Label),
				}
				if lo.Suggest != nil {
					lerr.Suggestion = lo.Suggest(s.Label)
				}
				return nil, lerr
			}
			binding, lerr := lo.bind(target.Label, i, ref, s.Subst)
			if lerr != nil {
				return nil, lerr
			}
			var deps []int
			for _, h := range ref.Essential {
				inst := instantiate(h.Tokens, binding)
				idx := topmostMatch(stack, inst)
				if idx < 0 {
					return nil, &LoweringError{
						Label: target.Label, Step: i, Kind: UnresolvedReference,
						Msg: fmt.Sprintf("hypothesis %q of %q has no matching stack entry", h.Label, s.Label),
						Want: lo.render(inst),
					}
				}
				deps = append(deps, stack[idx].origin)
				stack = append(stack[:idx], stack[idx+1:]...)
			}
			conclusion := instantiate(ref.Conclusion, binding)
			stack = append(stack, stackEntry{seq: conclusion, origin: i})
			out.Steps = append(out.Steps, Justification{Index: i, Kind: StepRef, Label: s.Label, Result: conclusion, Deps: deps})

		case Compose:
			if lo.Composition == nil || !lo.Composition(s.Via) {
				return nil, &LoweringError{
					Label: target.Label, Step: i, Kind: UnresolvedReference,
					Msg: fmt.Sprintf("%q does not name a registered composition rule", s.Via),
				}
			}
			if s.A == s.B {
				return nil, &LoweringError{
					Label: target.Label, Step: i, Kind: StackUnderflow,
					Msg: fmt.Sprintf("compose positions must be distinct, got %d twice", s.A),
				}
			}
			for _, pos := range []int{s.A, s.B} {
				if pos < 0 || pos >= len(stack) {
					return nil, &LoweringError{
						Label: target.Label, Step: i, Kind: StackUnderflow,
						Msg: fmt.Sprintf("stack position %d out of range, stack holds %d entries", pos, len(stack)),
					}
				}
			}
			ante := stack[s.A]
			impl := stack[s.B]
			sk := lo.Compiler.Skeleton()
			implConn, declared := sk.Implication()
			if !declared {
				return nil, &LoweringError{
					Label: target.Label, Step: i, Kind: UnresolvedReference,
					Msg: "the language skeleton designates no implication connective",
				}
			}
			conn, args, ok := sk.Subterms(impl.seq)
			if !ok || conn.ID != implConn.ID {
				return nil, &LoweringError{
					Label: target.Label, Step: i, Kind: ConclusionMismatch,
					Msg: fmt.Sprintf("entry at position %d is not an implication", s.B),
					Got: lo.render(impl.seq),
				}
			}
			if !args[0].Equal(ante.seq) {
				return nil, &LoweringError{
					Label: target.Label, Step: i, Kind: ConclusionMismatch,
					Msg:  "antecedent does not match the entry at the designated position",
					Want: lo.render(args[0]),
					Got:  lo.render(ante.seq),
				}
			}
			result := args[1].Clone()
			deps := []int{ante.origin, impl.origin}
			hi, lw := s.A, s.B
			if hi < lw {
				hi, lw = lw, hi
			}
			stack = append(stack[:hi], stack[hi+1:]...)
			stack = append(stack[:lw], stack[lw+1:]...)
			stack = append(stack, stackEntry{seq: result, origin: i})
			out.Steps = append(out.Steps, Justification{Index: i, Kind: StepCompose, Label: s.Via, Result: result, Deps: deps})

		default:
			return nil, &LoweringError{
				Label: target.Label, Step: i, Kind: UnresolvedReference,
				Msg: fmt.Sprintf("unknown step %T", step),
			}
		}
	}

	last := len(script) - 1
	if len(stack) != 1 {
		lerr := &LoweringError{
			Label: target.Label, Step: last, Kind: ConclusionMismatch,
			Msg:  fmt.Sprintf("proof leaves %d stack entries, expected exactly 1", len(stack)),
			Want: lo.render(target.Conclusion),
		}
		if len(stack) > 0 {
			lerr.Got = lo.render(stack[len(stack)-1].seq)
		}
		return nil, lerr
	}
	if !stack[0].seq.Equal(target.Conclusion) {
		return nil, &LoweringError{
			Label: target.Label, Step: last, Kind: ConclusionMismatch,
			Msg:  "terminal entry does not match the declared conclusion",
			Want: lo.render(target.Conclusion),
			Got:  lo.render(stack[0].seq),
		}
	}
	return out, nil
}

// bind resolves and compiles a substitution against the referenced
// assertion's schema variables. Coverage is strict in both directions:
// every schema variable must be bound and every binding must name a
// schema variable.
func (lo *Lowerer) bind(label string, step int, ref Assertion, subst Subst) (map[symbols.ID]wff.TokenSeq, *LoweringError) {
	in := lo.Compiler.Interner()
	lex := lo.Compiler.Lexicon()

	normalized := make(map[string]string, len(subst))
	keys := make([]string, 0, len(subst))
	for k := range subst {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id, err := lex.Resolve(k)
		if err != nil {
			return nil, &LoweringError{
				Label: label, Step: step, Kind: UnificationFailure,
				Msg: fmt.Sprintf("substitution key %q does not resolve", k),
				Err: err,
			}
		}
		canonical := in.Name(id)
		if _, dup := normalized[canonical]; dup {
			return nil, &LoweringError{
				Label: label, Step: step, Kind: UnificationFailure,
				Msg: fmt.Sprintf("substitution binds %q twice", canonical),
			}
		}
		normalized[canonical] = subst[k]
	}

	binding := make(map[symbols.ID]wff.TokenSeq, len(ref.Floating))
	for _, f := range ref.Floating {
		varID := f.Tokens[0]
		spelling := in.Name(varID)
		text, ok := normalized[spelling]
		if !ok {
			return nil, &LoweringError{
				Label: label, Step: step, Kind: UnificationFailure,
				Msg: fmt.Sprintf("schema variable %q of %q is not covered by the substitution", spelling, ref.Label),
			}
		}
		seq, err := lo.Compiler.CompileText(text)
		if err != nil {
			return nil, &LoweringError{
				Label: label, Step: step, Kind: UnificationFailure,
				Msg: fmt.Sprintf("substitution for %q does not compile", spelling),
				Err: err,
			}
		}
		binding[varID] = seq
		delete(normalized, spelling)
	}
	if len(normalized) > 0 {
		extras := make([]string, 0, len(normalized))
		for k := range normalized {
			extras = append(extras, k)
		}
		sort.Strings(extras)
		return nil, &LoweringError{
			Label: label, Step: step, Kind: UnificationFailure,
			Msg: fmt.Sprintf("substitution binds %q, not a schema variable of %q", extras[0], ref.Label),
		}
	}
	return binding, nil
}

func (lo *Lowerer) render(seq wff.TokenSeq) string {
	return seq.Render(lo.Compiler.Interner())
}

// instantiate splices binding values over variable tokens, copying
// everything else through.
func instantiate(seq wff.TokenSeq, binding map[symbols.ID]wff.TokenSeq) wff.TokenSeq {
	out := make(wff.TokenSeq, 0, len(seq))
	for _, id := range seq {
		if repl, ok := binding[id]; ok {
			out = append(out, repl...)
		} else {
			out = append(out, id)
		}
	}
	return out
}

// topmostMatch finds the highest stack index holding tokens equal to
// want, -1 if none.
func topmostMatch(stack []stackEntry, want wff.TokenSeq) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].seq.Equal(want) {
			return i
		}
	}
	return -1
}
