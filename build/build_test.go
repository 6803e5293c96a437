package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epistemic-frontier/metamath-logic/internal"
	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/proof"
	tt "github.com/epistemic-frontier/metamath-logic/internal/types"
)

// coreSpec is a one-axiom package other test specs import.
func coreSpec() internal.PackageSpec {
	return internal.PackageSpec{
		Name:        "core",
		Typecode:    "wff",
		Implication: "->",
		SyntaxRules: true,
		Variables:   []string{"ph", "ps"},
		Connectives: []internal.ConnectiveSpec{{Label: "wi", Name: "->", Arity: 2}},
		Axioms: []internal.AssertionSpec{
			{Label: "ax-then", Conclusion: internal.Text("( ph -> ( ps -> ph ) )")},
		},
		Exports: []string{"wi", "ax-then"},
	}
}

// extensionSpec proves one lemma through core's exported axiom.
func extensionSpec() internal.PackageSpec {
	return internal.PackageSpec{
		Name:        "extension",
		Typecode:    "wff",
		Implication: "->",
		Variables:   []string{"ph", "ps"},
		Connectives: []internal.ConnectiveSpec{{Label: "wi", Name: "->", Arity: 2}},
		Imports:     []string{"core"},
		Lemmas: []internal.LemmaSpec{
			{
				Label:      "weaken",
				Conclusion: internal.Text("( ph -> ( ps -> ph ) )"),
				Script:     proof.NewScript().Ref("ax-then", proof.Identity([]string{"ph", "ps"})).Build(),
			},
		},
	}
}

func newTestRunner(t *testing.T, config Config) *Runner {
	t.Helper()
	r, err := New(nil, config)
	require.NoError(t, err)
	return r
}

func TestBuildDefaultWorkspace(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	r := newTestRunner(t, Config{Name: "ws", OutDir: outDir})

	results, err := r.BuildSpecs(context.Background(), DefaultWorkspace())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "hilbert", results[0].Package)
	assert.Equal(t, "predicate", results[1].Package)
	for _, res := range results {
		assert.Empty(t, res.Issues)
		assert.Len(t, res.Hash, 64)
		assert.FileExists(t, res.Path)
		assert.FileExists(t, res.NamesPath)
	}

	art, err := artifact.ReadArtifact(filepath.Join(outDir, "predicate.json"))
	require.NoError(t, err)
	assert.Equal(t, "predicate", art.Package)
	assert.Equal(t, []string{"hilbert"}, art.Imports)
}

func TestImportResolvedWithinRun(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, Config{Name: "ws"})

	results, err := r.BuildSpecs(context.Background(), []internal.PackageSpec{
		extensionSpec(), coreSpec(),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	ext := results[1]
	require.Equal(t, "extension", ext.Package)
	assert.Empty(t, ext.Issues)
	require.Len(t, ext.Artifact.Statements, 1)
	assert.Equal(t, []string{"ax-then"}, ext.Artifact.Statements[0].Proof)

	// No output directory configured, so nothing was written.
	assert.Empty(t, ext.Path)
	assert.Empty(t, ext.NamesPath)

	// The in-memory assembly stays reachable for graph rendering.
	pkg, ok := r.Package("extension")
	require.True(t, ok)
	entry, ok := pkg.Lookup("weaken")
	require.True(t, ok)
	assert.NotNil(t, entry.Lowered)
}

func TestImportResolvedFromDisk(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()

	first := newTestRunner(t, Config{Name: "ws", OutDir: outDir})
	_, err := first.BuildSpecs(context.Background(), []internal.PackageSpec{coreSpec()})
	require.NoError(t, err)

	second := newTestRunner(t, Config{Name: "ws", OutDir: outDir})
	res, err := second.Build(context.Background(), extensionSpec())
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	require.Len(t, res.Artifact.Statements, 1)
}

func TestMissingImportFails(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, Config{Name: "ws", OutDir: t.TempDir()})

	_, err := r.BuildSpecs(context.Background(), []internal.PackageSpec{extensionSpec()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `import "core"`)
}

func TestCacheHitOnSecondRun(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	cacheDir := filepath.Join(outDir, ".cache")
	specs := []internal.PackageSpec{coreSpec(), extensionSpec()}

	first := newTestRunner(t, Config{Name: "ws", OutDir: outDir, CacheDir: cacheDir})
	cold, err := first.BuildSpecs(context.Background(), specs)
	require.NoError(t, err)
	for _, res := range cold {
		assert.False(t, res.Cached)
	}

	// A fresh runner reloads the cache from disk.
	second := newTestRunner(t, Config{Name: "ws", OutDir: outDir, CacheDir: cacheDir})
	warm, err := second.BuildSpecs(context.Background(), specs)
	require.NoError(t, err)
	require.Len(t, warm, 2)
	for i, res := range warm {
		assert.True(t, res.Cached, res.Package)
		assert.Equal(t, cold[i].Hash, res.Hash)
		assert.FileExists(t, res.Path)
		assert.FileExists(t, res.NamesPath)
	}
}

func TestCacheInvalidationCascades(t *testing.T) {
	t.Parallel()

	outDir := t.TempDir()
	cacheDir := filepath.Join(outDir, ".cache")

	r := newTestRunner(t, Config{Name: "ws", OutDir: outDir, CacheDir: cacheDir})
	_, err := r.BuildSpecs(context.Background(), []internal.PackageSpec{coreSpec(), extensionSpec()})
	require.NoError(t, err)

	// Swapping the axiom shape changes core's artifact, so the
	// downstream package rebuilds too and its proof now misses its
	// declared conclusion.
	changed := coreSpec()
	changed.Axioms[0].Conclusion = internal.Text("( ps -> ( ph -> ps ) )")

	results, err := r.BuildSpecs(context.Background(), []internal.PackageSpec{changed, extensionSpec()})
	require.NoError(t, err)
	require.Len(t, results, 2)

	core, ext := results[0], results[1]
	assert.False(t, core.Cached)
	assert.False(t, ext.Cached)
	require.NotEmpty(t, ext.Issues)
	assert.Equal(t, "conclusion-mismatch", ext.Issues[0].Rule)
	assert.Equal(t, "weaken", ext.Issues[0].Label)
}

func TestStubsForbiddenByPolicy(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, Config{Name: "ws", Policy: PolicyConfig{AllowStubs: false}})

	results, err := r.BuildSpecs(context.Background(), DefaultWorkspace())
	require.NoError(t, err)

	hil := results[0]
	require.Equal(t, "hilbert", hil.Package)
	require.Len(t, hil.Issues, 1)
	assert.Equal(t, "stub-present", hil.Issues[0].Rule)
	assert.Equal(t, "peirce", hil.Issues[0].Label)
	assert.Equal(t, tt.SeverityError, hil.Issues[0].Severity)
}

func TestParseConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".mlc.yaml")
	content := `name: playground
out_dir: build/out
policy:
  auto_register_canonical: true
rules:
  redundant-assertion:
    severity: off
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := ParseConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "playground", config.Name)
	assert.Equal(t, "build/out", config.OutDir)
	assert.True(t, config.Policy.AutoRegisterCanonical)
	assert.Equal(t, tt.SeverityOff, config.Rules["redundant-assertion"].Severity)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultConfig().CacheDir, config.CacheDir)
}

func TestParseConfigFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ParseConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadManifests(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := `package: tiny
typecode: wff
implication: "->"
syntax_rules: true
variables: [ph, ps]
connectives:
  - label: wi
    name: "->"
    arity: 2
axioms:
  - label: ax-then
    conclusion: "( ph -> ( ps -> ph ) )"
exports: [wi, ax-then]
`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkgs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pkgs", "tiny.mm.yaml"), []byte(manifest), 0o644))

	specs, err := LoadManifests([]string{dir})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "tiny", specs[0].Name)

	r := newTestRunner(t, Config{Name: "ws"})
	results, err := r.BuildSpecs(context.Background(), specs)
	require.NoError(t, err)
	assert.Empty(t, results[0].Issues)
}
