package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

func TestExportRendersSpellings(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	imp := Export(tm.asserts["ax-mp"], tm.lex.Interner())

	assert.Equal(t, "ax-mp", imp.Label)
	assert.Equal(t, []string{"ps"}, imp.Conclusion)
	require.Len(t, imp.Essential, 2)
	assert.Equal(t, []string{"ph"}, imp.Essential[0].Tokens)
	assert.Equal(t, []string{"->", "ph", "ps"}, imp.Essential[1].Tokens)
	require.Len(t, imp.Floating, 2)
	assert.Equal(t, "ax-mp.ph", imp.Floating[0].Label)
	assert.Equal(t, "wff", imp.Floating[0].Typecode)
	assert.Equal(t, Floating, imp.Floating[0].Kind)
}

func TestBindRoundTrip(t *testing.T) {
	t.Parallel()
	src := newTestMachine(t)
	dst := newTestMachine(t)

	imp := Export(src.asserts["ax-1"], src.lex.Interner())
	bound, err := Bind(imp, dst.lex, dst.sk)
	require.NoError(t, err)

	assert.Equal(t, "ax-1", bound.Label)
	assert.True(t, bound.Conclusion.Equal(dst.seq(t, "( ph -> ( ps -> ph ) )")))
	require.Len(t, bound.Floating, 2)
	v, ok := dst.sk.Variable("ph")
	require.True(t, ok)
	assert.Equal(t, wff.TokenSeq{v.ID}, bound.Floating[0].Tokens)

	// the bound label is a local symbol, distinct from any source id
	sym, ok := dst.lex.Interner().Symbol(bound.LabelID)
	require.True(t, ok)
	assert.Equal(t, symbols.KindLabel, sym.Kind)
}

func TestBindRejectsUndeclaredSpelling(t *testing.T) {
	t.Parallel()
	src := newTestMachine(t)
	src.declare(t, "chch", nil, "( ch -> ch )")
	imp := Export(src.asserts["chch"], src.lex.Interner())

	// a leaner context that never declares ch
	in := symbols.NewInterner()
	sk, err := wff.NewSkeleton(in, "wff")
	require.NoError(t, err)
	require.NoError(t, sk.DeclareConnective("wi", "->", 2))
	require.NoError(t, sk.DeclareVariable("ph"))
	lex := symbols.NewLexicon(in, symbols.Policy{})

	_, err = Bind(imp, lex, sk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bind import "chch"`)
	var rerr *symbols.ResolutionError
	assert.ErrorAs(t, err, &rerr)
}

func TestBindRejectsNonVariableFloatingSubject(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	imp := Imported{
		Label: "bogus",
		Floating: []ImportedHypothesis{{
			Label:    "bogus.x",
			Kind:     Floating,
			Typecode: "wff",
			Tokens:   []string{"->"},
		}},
		Conclusion: []string{"ph"},
	}

	_, err := Bind(imp, tm.lex, tm.sk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a declared variable")
}

func TestHypothesesOrdersFloatsBeforeEssentials(t *testing.T) {
	t.Parallel()
	tm := newTestMachine(t)

	a := tm.asserts["ax-mp"]
	labels := make([]string, 0, 4)
	for _, h := range a.Hypotheses() {
		labels = append(labels, h.Label)
	}
	assert.Equal(t, []string{"ax-mp.ph", "ax-mp.ps", "ax-mp.1", "ax-mp.2"}, labels)
}
