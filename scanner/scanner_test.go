package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestScanner(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	files := map[string]string{
		"hilbert.mm.yaml":          "package: hilbert",
		"notes.txt":                "not a manifest",
		"hilbert.json":             "{}",
		"nested/predicate.mm.yaml": "package: predicate",
	}

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
		require.NoError(t, err)
		err = os.WriteFile(fullPath, []byte(content), 0o644)
		require.NoError(t, err)
	}

	scanner := New(tempDir)
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, 2, len(scannedFiles), "should find 2 manifests")

	foundPaths := make(map[string]bool)
	for _, file := range scannedFiles {
		foundPaths[file.Path] = true
		assert.Greater(t, file.Size, int64(0), "manifest size should be greater than 0")
	}

	assert.True(t, foundPaths[filepath.Join(tempDir, "hilbert.mm.yaml")])
	assert.True(t, foundPaths[filepath.Join(tempDir, "nested/predicate.mm.yaml")])
	assert.False(t, foundPaths[filepath.Join(tempDir, "notes.txt")])
	assert.False(t, foundPaths[filepath.Join(tempDir, "hilbert.json")])
}

func TestScanOrderIsDeterministic(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	for _, name := range []string{"c.mm.yaml", "a.mm.yaml", "b.mm.yaml"} {
		err := os.WriteFile(filepath.Join(tempDir, name), []byte("package: x"), 0o644)
		require.NoError(t, err)
	}

	paths, err := FindManifests(tempDir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(tempDir, "a.mm.yaml"), paths[0])
	assert.Equal(t, filepath.Join(tempDir, "b.mm.yaml"), paths[1])
	assert.Equal(t, filepath.Join(tempDir, "c.mm.yaml"), paths[2])
}

func TestFindManifestsOnFilePath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	manifest := filepath.Join(tempDir, "hilbert.mm.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("package: hilbert"), 0o644))

	paths, err := FindManifests(manifest)
	require.NoError(t, err)
	assert.Equal(t, []string{manifest}, paths)

	other := filepath.Join(tempDir, "readme.md")
	require.NoError(t, os.WriteFile(other, []byte("hi"), 0o644))
	paths, err = FindManifests(other)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
