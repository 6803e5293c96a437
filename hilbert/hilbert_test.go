package hilbert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistemic-frontier/metamath-logic/hilbert"
	"github.com/epistemic-frontier/metamath-logic/internal"
	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

func assemble(t *testing.T) *internal.Package {
	t.Helper()
	pkg, err := internal.NewAssembler(symbols.Policy{}, nil).Assemble(hilbert.Spec(), nil)
	require.NoError(t, err)
	return pkg
}

func TestPackageAssemblesClean(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)

	assert.Empty(t, pkg.Issues, "shipped content must build without diagnostics")
	assert.Empty(t, pkg.Failed(), "every shipped script must lower")

	// 3 axioms, 4 syntax rules, ax-mp, df-or, 19 lemmas, 4 theorems.
	assert.Len(t, pkg.Entries, 32)
}

func TestEveryLemmaCarriesItsProof(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)

	for _, e := range pkg.Entries {
		if e.Provenance != internal.ProvLemma && e.Provenance != internal.ProvTheorem {
			continue
		}
		if e.Stub {
			assert.Nil(t, e.Lowered, "%s: stubs carry no proof", e.Assertion.Label)
			continue
		}
		require.NotNil(t, e.Lowered, "%s: missing lowered proof", e.Assertion.Label)
		assert.Equal(t, len(e.Script), len(e.Lowered.Steps), e.Assertion.Label)
	}
}

func TestLinearityTerminal(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)

	e, ok := pkg.Lookup("linearity")
	require.True(t, ok)
	require.NotNil(t, e.Lowered)

	want, err := pkg.Compiler().CompileText("( -. ( ph -> ps ) -> ( ps -> ph ) )")
	require.NoError(t, err)
	assert.True(t, e.Assertion.Conclusion.Equal(want))
	assert.True(t, e.Lowered.Steps[len(e.Lowered.Steps)-1].Result.Equal(want))
}

func TestDisjunctionMacroExpands(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)

	tests := []struct {
		label string
		want  string
	}{
		{"olc", "( ph -> ( -. ps -> ph ) )"},
		{"exmid", "( -. ph -> -. ph )"},
		{"df-or", "( ( -. ph -> ps ) <-> ( -. ph -> ps ) )"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			e, ok := pkg.Lookup(tt.label)
			require.True(t, ok)

			want, err := pkg.Compiler().CompileText(tt.want)
			require.NoError(t, err)
			assert.True(t, e.Assertion.Conclusion.Equal(want),
				"got %v", e.Assertion.Conclusion.Render(pkg.Skeleton().Interner()))

			// The macro spelling never reaches the token stream.
			for _, spelling := range e.Assertion.Conclusion.Spellings(pkg.Skeleton().Interner()) {
				assert.NotEqual(t, `\/`, spelling)
			}
		})
	}
}

func TestExportContainment(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)

	exported := make(map[string]bool, len(pkg.Exported))
	for _, label := range pkg.Exported {
		exported[label] = true
	}

	assert.False(t, exported["pm2.43i"], "pm2.43i is an internal helper")
	assert.False(t, exported["peirce"], "stubs may not be exported")
	assert.True(t, exported["ax-mp"])
	assert.True(t, exported["linearity"])

	set := pkg.ExportedSet()
	assert.Len(t, set, len(pkg.Exported))
	_, ok := set["pm2.43i"]
	assert.False(t, ok)

	mp, ok := set["ax-mp"]
	require.True(t, ok)
	assert.True(t, mp.Composition, "ax-mp must stay composable downstream")
}

func TestStubKeepsLabelClaimedButLeavesArtifact(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)

	e, ok := pkg.Lookup("peirce")
	require.True(t, ok)
	assert.True(t, e.Stub)

	art := pkg.Artifact()
	for _, st := range art.Statements {
		assert.NotEqual(t, "peirce", st.Label)
	}
	// 32 entries minus the one stub.
	assert.Len(t, art.Statements, 31)
}

func TestArtifactDeterminism(t *testing.T) {
	t.Parallel()

	build := func() []byte {
		pkg, err := internal.NewAssembler(symbols.Policy{}, nil).Assemble(hilbert.Spec(), nil)
		require.NoError(t, err)
		data, err := artifact.Encode(pkg.Artifact())
		require.NoError(t, err)
		return data
	}

	first := build()
	second := build()
	assert.Equal(t, first, second, "same spec must encode byte-identically")
	assert.Equal(t, artifact.Hash(first), artifact.Hash(second))
}

func TestAliasRowsInNameMapping(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)

	nm := pkg.NameMapping()
	rows := make(map[string]string, len(nm.Rows))
	for _, row := range nm.Rows {
		rows[row.Raw] = row.Canonical
	}

	// linearity is authored in alias spellings; the sidecar records how
	// they resolved.
	assert.Equal(t, "ph", rows["φ"])
	assert.Equal(t, "ps", rows["ψ"])
	assert.Equal(t, "->", rows["→"])
	assert.Equal(t, "-.", rows["¬"])

	for i := 1; i < len(nm.Rows); i++ {
		assert.Less(t, nm.Rows[i-1].Raw, nm.Rows[i].Raw, "rows must sort by raw spelling")
	}
}

func TestProofLabelsInArtifact(t *testing.T) {
	t.Parallel()
	pkg := assemble(t)
	art := pkg.Artifact()

	byLabel := make(map[string]artifact.Statement, len(art.Statements))
	for _, st := range art.Statements {
		byLabel[st.Label] = st
	}

	a1i := byLabel["a1i"]
	require.NotNil(t, a1i.Proof)
	assert.Equal(t, []string{"a1i.1", "ax-1", "ax-mp"}, a1i.Proof)

	assert.Empty(t, byLabel["ax-1"].Proof, "axioms carry no proof")
	assert.Equal(t, artifact.KindAxiom, byLabel["ax-1"].Kind)
	assert.Equal(t, artifact.KindTheorem, byLabel["mto"].Kind)
	assert.True(t, byLabel["ax-mp"].Composition)
}
