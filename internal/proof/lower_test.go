package proof

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

type testMachine struct {
	sk      *wff.Skeleton
	lex     *symbols.Lexicon
	comp    *wff.Compiler
	asserts map[string]Assertion
}

func newTestMachine(t *testing.T) *testMachine {
	t.Helper()
	in := symbols.NewInterner()
	sk, err := wff.NewSkeleton(in, "wff")
	require.NoError(t, err)
	require.NoError(t, sk.DeclareConnective("wi", "->", 2))
	require.NoError(t, sk.DeclareConnective("wn", "-.", 1))
	for _, v := range []string{"ph", "ps", "ch"} {
		require.NoError(t, sk.DeclareVariable(v))
	}
	require.NoError(t, sk.SetImplication("->"))
	lex := symbols.NewLexicon(in, symbols.Policy{})
	tm := &testMachine{sk: sk, lex: lex, comp: wff.NewCompiler(sk, lex), asserts: make(map[string]Assertion)}

	// the usual propositional base: two axioms and the detachment rule
	tm.declare(t, "ax-1", nil, "( ph -> ( ps -> ph ) )")
	tm.declare(t, "ax-2", nil, "( ( ph -> ( ps -> ch ) ) -> ( ( ph -> ps ) -> ( ph -> ch ) ) )")
	tm.declare(t, "ax-mp", []string{"ph", "( ph -> ps )"}, "ps")
	return tm
}

func (tm *testMachine) declare(t *testing.T, label string, hypTexts []string, conclusion string) Assertion {
	t.Helper()
	labelID, err := tm.lex.Interner().Intern(label, symbols.KindLabel)
	require.NoError(t, err)

	essential := make([]Hypothesis, 0, len(hypTexts))
	for i, text := range hypTexts {
		tokens, err := tm.comp.CompileText(text)
		require.NoError(t, err)
		essential = append(essential, Hypothesis{
			Label:    fmt.Sprintf("%s.%d", label, i+1),
			Kind:     Essential,
			Typecode: tm.sk.TypecodeID(),
			Tokens:   tokens,
		})
	}
	tokens, err := tm.comp.CompileText(conclusion)
	require.NoError(t, err)

	a := Assertion{
		Label:      label,
		LabelID:    labelID,
		Essential:  essential,
		Conclusion: tokens,
	}
	a.Floating = SynthesizeFloating(label, essential, tokens, tm.sk)
	tm.asserts[label] = a
	return a
}

func (tm *testMachine) lowerer() *Lowerer {
	return &Lowerer{
		Compiler: tm.comp,
		Lookup: func(label string) (Assertion, bool) {
			a, ok := tm.asserts[label]
			return a, ok
		},
		Composition: func(label string) bool { return label == "ax-mp" },
	}
}

func (tm *testMachine) seq(t *testing.T, text string) wff.TokenSeq {
	t.Helper()
	tokens, err := tm.comp.CompileText(text)
	require.NoError(t, err)
	return tokens
}

func TestLowerHypothesisDischargeAndCompose(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	// hyp ph on the stack, ax-1 instantiated over it, then detachment
	target := tm.declare(t, "l1", []string{"ph"}, "( ps -> ph )")
	script := NewScript().
		Hyp(0).
		Ref("ax-1", Subst{"ph": "ph", "ps": "ps"}).
		Compose(0, 1, "ax-mp").
		Build()

	lowered, err := tm.lowerer().Lower(target, script)
	require.NoError(t, err)
	require.Len(t, lowered.Steps, 3)
	assert.True(t, lowered.Steps[2].Result.Equal(tm.seq(t, "( ps -> ph )")))
	assert.Equal(t, []string{"l1.1", "ax-1", "ax-mp"}, lowered.Labels())
	assert.Equal(t, []int{0, 1}, lowered.Steps[2].Deps)
}

func TestLowerRefConsumesDischargedEntries(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	// referencing the detachment rule discharges both pushed hypotheses,
	// leaving a single terminal entry
	target := tm.declare(t, "l2", []string{"ph", "( ph -> ps )"}, "ps")
	script := NewScript().
		Hyp(0).
		Hyp(1).
		Ref("ax-mp", Subst{"ph": "ph", "ps": "ps"}).
		Build()

	lowered, err := tm.lowerer().Lower(target, script)
	require.NoError(t, err)
	assert.True(t, lowered.Steps[2].Result.Equal(tm.seq(t, "ps")))
	assert.Equal(t, []int{0, 1}, lowered.Steps[2].Deps)
}

func TestLowerIdentityRoundTrip(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	target := tm.declare(t, "ax1-again", nil, "( ph -> ( ps -> ph ) )")
	vars := tm.asserts["ax-1"].SchemaVars(tm.lex.Interner())
	script := NewScript().Ref("ax-1", Identity(vars)).Build()

	lowered, err := tm.lowerer().Lower(target, script)
	require.NoError(t, err)
	assert.True(t, lowered.Steps[0].Result.Equal(tm.asserts["ax-1"].Conclusion))
}

func TestLowerUnknownReference(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	target := tm.declare(t, "l3", nil, "( ph -> ph )")
	script := NewScript().
		Ref("ax-1", Subst{"ph": "ph", "ps": "ph"}).
		Ref("ax-missing", Subst{"ph": "ph"}).
		Build()

	_, err := tm.lowerer().Lower(target, script)
	var lerr *LoweringError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, UnresolvedReference, lerr.Kind)
	assert.Equal(t, "l3", lerr.Label)
	assert.Equal(t, 1, lerr.Step)
}

func TestLowerSuggestionForNearMissLabel(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	target := tm.declare(t, "l4", nil, "( ph -> ( ps -> ph ) )")
	lo := tm.lowerer()
	lo.Suggest = func(label string) string {
		if label == "ax1" {
			return "ax-1"
		}
		return ""
	}

	_, err := lo.Lower(target, NewScript().Ref("ax1", nil).Build())
	var lerr *LoweringError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "ax-1", lerr.Suggestion)
}

func TestLowerErrorCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hyps     []string
		conc     string
		script   func(vars []string) Script
		kind     LoweringErrorKind
		step     int
		contains string
	}{
		{
			name: "hypothesis index out of range",
			hyps: []string{"ph"},
			conc: "( ps -> ph )",
			script: func([]string) Script {
				return NewScript().Hyp(3).Build()
			},
			kind: IndexOutOfRange, step: 0, contains: "out of range",
		},
		{
			name: "compose position beyond stack",
			conc: "( ph -> ph )",
			script: func(vars []string) Script {
				return NewScript().
					Ref("ax-1", Identity(vars)).
					Compose(0, 5, "ax-mp").
					Build()
			},
			kind: StackUnderflow, step: 1, contains: "out of range",
		},
		{
			name: "compose positions must differ",
			conc: "( ph -> ph )",
			script: func(vars []string) Script {
				return NewScript().
					Ref("ax-1", Identity(vars)).
					Compose(0, 0, "ax-mp").
					Build()
			},
			kind: StackUnderflow, step: 1, contains: "distinct",
		},
		{
			name: "compose via unknown rule",
			conc: "( ph -> ph )",
			script: func(vars []string) Script {
				return NewScript().
					Ref("ax-1", Identity(vars)).
					Compose(0, 1, "modus-nonexistens").
					Build()
			},
			kind: UnresolvedReference, step: 1, contains: "composition rule",
		},
		{
			name: "uncovered schema variable",
			conc: "( ph -> ( ps -> ph ) )",
			script: func([]string) Script {
				return NewScript().Ref("ax-1", Subst{"ph": "ph"}).Build()
			},
			kind: UnificationFailure, step: 0, contains: "not covered",
		},
		{
			name: "binding outside the schema",
			conc: "( ph -> ( ps -> ph ) )",
			script: func([]string) Script {
				return NewScript().Ref("ax-1", Subst{"ph": "ph", "ps": "ps", "ch": "ch"}).Build()
			},
			kind: UnificationFailure, step: 0, contains: "not a schema variable",
		},
		{
			name: "substitution text does not compile",
			conc: "( ph -> ( ps -> ph ) )",
			script: func([]string) Script {
				return NewScript().Ref("ax-1", Subst{"ph": "( ph ->", "ps": "ps"}).Build()
			},
			kind: UnificationFailure, step: 0, contains: "does not compile",
		},
		{
			name: "leftover stack entries",
			conc: "( ph -> ( ps -> ph ) )",
			script: func(vars []string) Script {
				return NewScript().
					Ref("ax-1", Identity(vars)).
					Ref("ax-1", Identity(vars)).
					Build()
			},
			kind: ConclusionMismatch, step: 1, contains: "2 stack entries",
		},
		{
			name: "terminal entry differs from conclusion",
			conc: "( ps -> ( ph -> ps ) )",
			script: func(vars []string) Script {
				return NewScript().Ref("ax-1", Identity(vars)).Build()
			},
			kind: ConclusionMismatch, step: 0, contains: "declared conclusion",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tm := newTestMachine(t)
			target := tm.declare(t, "lemma-under-test", tc.hyps, tc.conc)
			vars := tm.asserts["ax-1"].SchemaVars(tm.lex.Interner())

			_, err := tm.lowerer().Lower(target, tc.script(vars))
			var lerr *LoweringError
			require.True(t, errors.As(err, &lerr), "got %v", err)
			assert.Equal(t, tc.kind, lerr.Kind)
			assert.Equal(t, tc.step, lerr.Step)
			assert.Equal(t, "lemma-under-test", lerr.Label)
			assert.Contains(t, lerr.Error(), tc.contains)
		})
	}
}

func TestLowerComposeMismatchRendersWantAndGot(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	// stack: [ps->ph instance, ax-1 instance]; the antecedent slot wants
	// "ph", the designated entry holds something else
	target := tm.declare(t, "l5", []string{"( ps -> ph )"}, "( ps -> ph )")
	script := NewScript().
		Hyp(0).
		Ref("ax-1", Subst{"ph": "ph", "ps": "ps"}).
		Compose(0, 1, "ax-mp").
		Build()

	_, err := tm.lowerer().Lower(target, script)
	var lerr *LoweringError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, ConclusionMismatch, lerr.Kind)
	assert.Equal(t, "ph", lerr.Want)
	assert.Equal(t, "-> ps ph", lerr.Got)
}

func TestLowerWrappedCompileErrorIsInspectable(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	target := tm.declare(t, "l6", nil, "( ph -> ( ps -> ph ) )")
	script := NewScript().Ref("ax-1", Subst{"ph": "ph", "ps": "∄"}).Build()

	_, err := tm.lowerer().Lower(target, script)
	var rerr *symbols.ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "∄", rerr.Raw)
}
