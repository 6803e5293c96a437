// Package artifact renders assembled packages into their on-disk JSON
// form: the statement artifact consumed by downstream builds and
// external verifiers, and the name-mapping sidecar recording how raw
// spellings resolved during the build.
package artifact

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
)

// Statement kinds. The vocabulary is fixed by the verifier interface:
// axioms and rules both emit as axiom statements, proved lemmas and
// theorems both as theorem statements.
const (
	KindAxiom      = "axiom"
	KindDefinition = "definition"
	KindTheorem    = "theorem"
)

// Hypothesis kinds.
const (
	HypFloating  = "floating"
	HypEssential = "essential"
)

// Hyp is one hypothesis record of a statement. Tokens are canonical
// spellings in prefix order.
type Hyp struct {
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Typecode string   `json:"typecode"`
	Tokens   []string `json:"tokens"`
}

// Statement is one assembled assertion in spelling form. Proof lists
// the justification labels of the lowered script, in step order; it is
// empty for axiomatic statements. Composition marks rules usable as the
// implication-elimination step of downstream proofs.
type Statement struct {
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Hypotheses  []Hyp    `json:"hypotheses,omitempty"`
	Conclusion  []string `json:"conclusion"`
	Proof       []string `json:"proof,omitempty"`
	Composition bool     `json:"composition,omitempty"`
}

// Artifact is the exported view of one assembled package. Statements
// keep assembly order; failed and stub assertions are never included.
type Artifact struct {
	Package    string      `json:"package"`
	Imports    []string    `json:"imports,omitempty"`
	Statements []Statement `json:"statements"`
	Exported   []string    `json:"exported"`
}

// NameMapping is the alias-resolution sidecar of one package build,
// one row per distinct raw spelling resolved, sorted by raw spelling.
type NameMapping struct {
	Package string            `json:"package"`
	Rows    []symbols.Mapping `json:"rows"`
}

// Encode renders the canonical byte form of an artifact: two-space
// indented JSON with a trailing newline. Hashing and writing both
// consume exactly these bytes, so equal artifacts hash equal.
func Encode(a Artifact) ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode artifact %q: %w", a.Package, err)
	}
	return append(data, '\n'), nil
}

// EncodeNameMapping renders the canonical byte form of a name-mapping
// sidecar.
func EncodeNameMapping(nm NameMapping) ([]byte, error) {
	data, err := json.MarshalIndent(nm, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode name mapping %q: %w", nm.Package, err)
	}
	return append(data, '\n'), nil
}

// Hash returns the hex sha256 content hash of an encoded artifact.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// pathLocks serializes writers per cleaned path. Writes to distinct
// paths do not contend, so parallel package builds interleave freely.
var pathLocks = struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}{locks: make(map[string]*sync.Mutex)}

func lockFor(path string) *sync.Mutex {
	pathLocks.mu.Lock()
	defer pathLocks.mu.Unlock()

	l, ok := pathLocks.locks[path]
	if !ok {
		l = &sync.Mutex{}
		pathLocks.locks[path] = l
	}
	return l
}

// Write stores encoded bytes at path, creating parent directories as
// needed. Writes to the same path are serialized process-wide.
func Write(path string, data []byte) error {
	clean := filepath.Clean(path)
	l := lockFor(clean)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(clean, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", clean, err)
	}
	return nil
}

// WriteArtifact encodes and stores the artifact under dir as
// <package>.json, returning the written path and the content hash.
func WriteArtifact(dir string, a Artifact) (string, string, error) {
	data, err := Encode(a)
	if err != nil {
		return "", "", err
	}
	path := filepath.Join(dir, a.Package+".json")
	if err := Write(path, data); err != nil {
		return "", "", err
	}
	return path, Hash(data), nil
}

// WriteNameMapping encodes and stores the sidecar under dir as
// <package>.names.json.
func WriteNameMapping(dir string, nm NameMapping) (string, error) {
	data, err := EncodeNameMapping(nm)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, nm.Package+".names.json")
	if err := Write(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadArtifact loads and decodes an artifact file.
func ReadArtifact(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	return a, nil
}
