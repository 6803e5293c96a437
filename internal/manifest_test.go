package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistemic-frontier/metamath-logic/internal/proof"
	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

const propManifest = `package: prop
typecode: wff
variables: [ph, ps, ch]
connectives:
  - {label: wi, name: "->", arity: 2, meaning: implies}
  - {label: wn, name: "-.", arity: 1}
implication: "->"
syntax_rules: true
aliases:
  - {raw: "→", canonical: "->"}
definitions:
  - label: df-or
    name: Or
    params: [ph, ps]
    body: "( -. ph -> ps )"
    equivalence: ""
axioms:
  - label: ax-1
    conclusion: "( ph -> ( ps -> ph ) )"
rules:
  - label: ax-mp
    hypotheses: ["ph", "( ph -> ps )"]
    conclusion: "ps"
    composition: true
lemmas:
  - label: a1i
    hypotheses: ["ph"]
    conclusion: "( ps -> ph )"
    script:
      - {hyp: 0}
      - {ref: ax-1, subst: {ph: ph, ps: ps}}
      - {compose: [0, 1], via: ax-mp}
exports: [ax-1, ax-mp, a1i]
imports: [base]
`

func TestParseManifest(t *testing.T) {
	t.Parallel()
	spec, err := ParseManifest("prop.mm.yaml", []byte(propManifest))
	require.NoError(t, err)

	assert.Equal(t, "prop", spec.Name)
	assert.Equal(t, "wff", spec.Typecode)
	assert.Equal(t, []string{"ph", "ps", "ch"}, spec.Variables)
	assert.Equal(t, "->", spec.Implication)
	assert.True(t, spec.SyntaxRules)
	assert.Equal(t, []string{"base"}, spec.Imports)

	require.Len(t, spec.Connectives, 2)
	assert.Equal(t, ConnectiveSpec{Label: "wi", Name: "->", Arity: 2, Meaning: "implies"}, spec.Connectives[0])

	require.Len(t, spec.Aliases, 1)
	assert.Equal(t, AliasSpec{Raw: "→", Canonical: "->"}, spec.Aliases[0])

	require.Len(t, spec.Definitions, 1)
	assert.Equal(t, "Or", spec.Definitions[0].Name)
	assert.Equal(t, []string{"ph", "ps"}, spec.Definitions[0].Params)
	assert.Equal(t, "( -. ph -> ps )", spec.Definitions[0].Body.Text)

	require.Len(t, spec.Rules, 1)
	assert.True(t, spec.Rules[0].Composition)
	assert.Equal(t, "ps", spec.Rules[0].Conclusion.Text)

	require.Len(t, spec.Lemmas, 1)
	script := spec.Lemmas[0].Script
	require.Len(t, script, 3)
	assert.Equal(t, proof.Hyp{Index: 0}, script[0])
	assert.Equal(t, proof.Ref{Label: "ax-1", Subst: proof.Subst{"ph": "ph", "ps": "ps"}}, script[1])
	assert.Equal(t, proof.Compose{A: 0, B: 1, Via: "ax-mp"}, script[2])
}

func TestParseManifestAssembles(t *testing.T) {
	t.Parallel()
	spec, err := ParseManifest("prop.mm.yaml", []byte(propManifest))
	require.NoError(t, err)
	spec.Imports = nil

	pkg, err := NewAssembler(symbols.Policy{}, nil).Assemble(spec, nil)
	require.NoError(t, err)
	assert.Empty(t, pkg.Issues)
	assert.Equal(t, []string{"ax-1", "ax-mp", "a1i"}, pkg.Exported)
}

func TestParseManifestErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		doc      string
		contains string
	}{
		{
			name:     "not yaml",
			doc:      "package: [unclosed",
			contains: "failed to parse manifest",
		},
		{
			name:     "missing package",
			doc:      "typecode: wff\n",
			contains: "missing package name",
		},
		{
			name:     "missing typecode",
			doc:      "package: prop\n",
			contains: "missing typecode",
		},
		{
			name: "hyp step with extra keys",
			doc: `package: prop
typecode: wff
lemmas:
  - label: bad
    conclusion: ph
    script:
      - {hyp: 0, ref: ax-1}
`,
			contains: "bad: step 0: hyp step carries extra keys",
		},
		{
			name: "ref step with compose key",
			doc: `package: prop
typecode: wff
lemmas:
  - label: bad
    conclusion: ph
    script:
      - {ref: ax-1, compose: [0, 1]}
`,
			contains: "ref step carries a compose key",
		},
		{
			name: "compose with one position",
			doc: `package: prop
typecode: wff
theorems:
  - label: bad
    conclusion: ph
    script:
      - {compose: [0], via: ax-mp}
`,
			contains: "compose wants two stack positions, got 1",
		},
		{
			name: "compose without via",
			doc: `package: prop
typecode: wff
lemmas:
  - label: bad
    conclusion: ph
    script:
      - {compose: [0, 1]}
`,
			contains: "compose step is missing via",
		},
		{
			name: "empty step",
			doc: `package: prop
typecode: wff
lemmas:
  - label: bad
    conclusion: ph
    script:
      - {}
`,
			contains: "step is none of hyp, ref, compose",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseManifest("bad.mm.yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "prop.mm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(propManifest), 0o644))

	spec, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "prop", spec.Name)

	_, err = LoadManifest(filepath.Join(dir, "missing.mm.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}
