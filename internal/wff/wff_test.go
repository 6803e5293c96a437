package wff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

func newTestContext(t *testing.T) (*Skeleton, *symbols.Lexicon, *Compiler) {
	t.Helper()
	in := symbols.NewInterner()
	sk, err := NewSkeleton(in, "wff")
	require.NoError(t, err)
	require.NoError(t, sk.DeclareConnective("wi", "->", 2))
	require.NoError(t, sk.DeclareConnective("wn", "-.", 1))
	require.NoError(t, sk.DeclareConnective("wo", "\\/", 2))
	for _, v := range []string{"ph", "ps", "ch"} {
		require.NoError(t, sk.DeclareVariable(v))
	}
	require.NoError(t, sk.SetImplication("->"))

	lex := symbols.NewLexicon(in, symbols.Policy{})
	aliases := map[string]string{"→": "->", "¬": "-.", "φ": "ph", "ψ": "ps", "χ": "ch"}
	for raw, canonical := range aliases {
		require.NoError(t, lex.RegisterAlias(raw, canonical))
	}
	return sk, lex, NewCompiler(sk, lex)
}

func TestCompilePrefixEncoding(t *testing.T) {
	t.Parallel()
	sk, _, comp := newTestContext(t)

	seq, err := comp.CompileText("ph -> ( ps -> ph )")
	require.NoError(t, err)
	assert.Equal(t, []string{"->", "ph", "->", "ps", "ph"}, seq.Spellings(sk.Interner()))
}

func TestCompileDeterministic(t *testing.T) {
	t.Parallel()
	_, _, comp := newTestContext(t)

	first, err := comp.CompileText("( -. ph -> ( ps \\/ ch ) )")
	require.NoError(t, err)
	second, err := comp.CompileText("( -. ph -> ( ps \\/ ch ) )")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestCompileAliasAndCanonicalAgree(t *testing.T) {
	t.Parallel()
	_, _, comp := newTestContext(t)

	viaAlias, err := comp.CompileText("φ → ( ψ → φ )")
	require.NoError(t, err)
	viaCanonical, err := comp.CompileText("ph -> ( ps -> ph )")
	require.NoError(t, err)
	assert.True(t, viaAlias.Equal(viaCanonical))
}

func TestCompileAfterAliasRegistration(t *testing.T) {
	t.Parallel()
	_, lex, comp := newTestContext(t)

	canonical, err := comp.CompileText("( ph \\/ ps )")
	require.NoError(t, err)
	before := len(lex.Mappings())

	_, err = comp.CompileText("( ph ∨ ps )")
	var rerr *symbols.ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "∨", rerr.Raw)

	// registering the alias makes the same text compile, and the
	// mapping gains exactly the one new row
	require.NoError(t, lex.RegisterAlias("∨", "\\/"))
	seq, err := comp.CompileText("( ph ∨ ps )")
	require.NoError(t, err)
	assert.True(t, seq.Equal(canonical))

	rows := lex.Mappings()
	require.Len(t, rows, before+1)
	var found bool
	for _, row := range rows {
		if row.Raw == "∨" {
			found = true
			assert.Equal(t, "\\/", row.Canonical)
		}
	}
	assert.True(t, found)
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	t.Run("arity mismatch", func(t *testing.T) {
		t.Parallel()
		_, _, comp := newTestContext(t)
		_, err := comp.Compile(App("->", V("ph")))
		var cerr *CompileError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, ArityMismatch, cerr.Kind)
		assert.Equal(t, "->", cerr.Op)
		assert.Equal(t, 2, cerr.Want)
		assert.Equal(t, 1, cerr.Got)
	})

	t.Run("unbound variable", func(t *testing.T) {
		t.Parallel()
		_, _, comp := newTestContext(t)
		// "wff" resolves to the typecode constant, not a schema variable
		_, err := comp.Compile(V("wff"))
		var cerr *CompileError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, UnboundVariable, cerr.Kind)
		assert.Equal(t, "wff", cerr.Variable)
	})

	t.Run("unregistered spelling", func(t *testing.T) {
		t.Parallel()
		_, _, comp := newTestContext(t)
		_, err := comp.CompileText("ph ∨ ps")
		var rerr *symbols.ResolutionError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, "∨", rerr.Raw)
	})
}

func TestRenderInfixRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []string{
		"ph",
		"-. ph",
		"( ph -> ps )",
		"( ph -> ( ps -> ph ) )",
		"( -. ( ph -> ps ) -> ( ps \\/ ch ) )",
		"-. -. ph",
	}
	for _, src := range tests {
		src := src
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			sk, _, comp := newTestContext(t)
			seq, err := comp.CompileText(src)
			require.NoError(t, err)
			text, err := sk.RenderInfix(seq)
			require.NoError(t, err)
			assert.Equal(t, src, text)

			again, err := comp.CompileText(text)
			require.NoError(t, err)
			assert.True(t, seq.Equal(again))
		})
	}
}

func TestSubterms(t *testing.T) {
	t.Parallel()
	sk, _, comp := newTestContext(t)

	seq, err := comp.CompileText("( -. ph -> ( ps -> ch ) )")
	require.NoError(t, err)

	conn, args, ok := sk.Subterms(seq)
	require.True(t, ok)
	assert.Equal(t, "->", conn.Name)
	require.Len(t, args, 2)
	assert.Equal(t, "-. ph", mustInfix(t, sk, args[0]))
	assert.Equal(t, "( ps -> ch )", mustInfix(t, sk, args[1]))

	// a bare variable is not an application
	varSeq, err := comp.CompileText("ph")
	require.NoError(t, err)
	_, _, ok = sk.Subterms(varSeq)
	assert.False(t, ok)
}

func mustInfix(t *testing.T, sk *Skeleton, seq TokenSeq) string {
	t.Helper()
	text, err := sk.RenderInfix(seq)
	require.NoError(t, err)
	return text
}

func TestExpandMacros(t *testing.T) {
	t.Parallel()
	_, _, comp := newTestContext(t)

	defs := map[string]Definition{
		"\\/": {
			Label:  "df-or",
			Name:   "\\/",
			Params: []string{"ph", "ps"},
			Body:   App("->", App("-.", V("ph")), V("ps")),
		},
	}

	expr, err := ExpandMacros(App("\\/", V("ps"), App("-.", V("ch"))), defs)
	require.NoError(t, err)

	seq, err := comp.Compile(expr)
	require.NoError(t, err)
	want, err := comp.CompileText("( -. ps -> -. ch )")
	require.NoError(t, err)
	assert.True(t, seq.Equal(want))
}
