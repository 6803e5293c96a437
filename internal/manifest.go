package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/epistemic-frontier/metamath-logic/internal/proof"
)

// Manifest documents are the *.mm.yaml authoring format. Formulas are
// source text; scripts are step mappings with exactly one of hyp, ref
// or compose set.

type manifestStep struct {
	Hyp     *int              `yaml:"hyp"`
	Ref     string            `yaml:"ref"`
	Subst   map[string]string `yaml:"subst"`
	Compose []int             `yaml:"compose"`
	Via     string            `yaml:"via"`
}

type manifestConnective struct {
	Label   string `yaml:"label"`
	Name    string `yaml:"name"`
	Arity   int    `yaml:"arity"`
	Meaning string `yaml:"meaning"`
}

type manifestAlias struct {
	Raw       string `yaml:"raw"`
	Canonical string `yaml:"canonical"`
}

type manifestDefinition struct {
	Label       string   `yaml:"label"`
	Name        string   `yaml:"name"`
	Params      []string `yaml:"params"`
	Body        string   `yaml:"body"`
	Equivalence string   `yaml:"equivalence"`
}

type manifestAssertion struct {
	Label       string   `yaml:"label"`
	Hypotheses  []string `yaml:"hypotheses"`
	Conclusion  string   `yaml:"conclusion"`
	Composition bool     `yaml:"composition"`
}

type manifestLemma struct {
	Label      string         `yaml:"label"`
	Hypotheses []string       `yaml:"hypotheses"`
	Conclusion string         `yaml:"conclusion"`
	Script     []manifestStep `yaml:"script"`
	Stub       bool           `yaml:"stub"`
}

type manifest struct {
	Package     string               `yaml:"package"`
	Typecode    string               `yaml:"typecode"`
	Variables   []string             `yaml:"variables"`
	Connectives []manifestConnective `yaml:"connectives"`
	Implication string               `yaml:"implication"`
	SyntaxRules bool                 `yaml:"syntax_rules"`
	Aliases     []manifestAlias      `yaml:"aliases"`
	Definitions []manifestDefinition `yaml:"definitions"`
	Axioms      []manifestAssertion  `yaml:"axioms"`
	Rules       []manifestAssertion  `yaml:"rules"`
	Lemmas      []manifestLemma      `yaml:"lemmas"`
	Theorems    []manifestLemma      `yaml:"theorems"`
	Exports     []string             `yaml:"exports"`
	Imports     []string             `yaml:"imports"`
}

// LoadManifest parses a *.mm.yaml package manifest into a PackageSpec.
func LoadManifest(path string) (PackageSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PackageSpec{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseManifest(path, data)
}

// ParseManifest converts manifest bytes into a PackageSpec. The path is
// used in error messages only.
func ParseManifest(path string, data []byte) (PackageSpec, error) {
	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return PackageSpec{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if doc.Package == "" {
		return PackageSpec{}, fmt.Errorf("manifest %s: missing package name", path)
	}
	if doc.Typecode == "" {
		return PackageSpec{}, fmt.Errorf("manifest %s: missing typecode", path)
	}

	spec := PackageSpec{
		Name:        doc.Package,
		Typecode:    doc.Typecode,
		Variables:   doc.Variables,
		Implication: doc.Implication,
		SyntaxRules: doc.SyntaxRules,
		Exports:     doc.Exports,
		Imports:     doc.Imports,
	}
	for _, c := range doc.Connectives {
		spec.Connectives = append(spec.Connectives, ConnectiveSpec{
			Label:   c.Label,
			Name:    c.Name,
			Arity:   c.Arity,
			Meaning: c.Meaning,
		})
	}
	for _, a := range doc.Aliases {
		spec.Aliases = append(spec.Aliases, AliasSpec{Raw: a.Raw, Canonical: a.Canonical})
	}
	for _, d := range doc.Definitions {
		spec.Definitions = append(spec.Definitions, DefinitionSpec{
			Label:       d.Label,
			Name:        d.Name,
			Params:      d.Params,
			Body:        Text(d.Body),
			Equivalence: Text(d.Equivalence),
		})
	}
	for _, a := range doc.Axioms {
		spec.Axioms = append(spec.Axioms, assertionFromManifest(a))
	}
	for _, r := range doc.Rules {
		spec.Rules = append(spec.Rules, assertionFromManifest(r))
	}
	var err error
	if spec.Lemmas, err = lemmasFromManifest(path, doc.Lemmas); err != nil {
		return PackageSpec{}, err
	}
	if spec.Theorems, err = lemmasFromManifest(path, doc.Theorems); err != nil {
		return PackageSpec{}, err
	}
	return spec, nil
}

func assertionFromManifest(a manifestAssertion) AssertionSpec {
	out := AssertionSpec{
		Label:       a.Label,
		Conclusion:  Text(a.Conclusion),
		Composition: a.Composition,
	}
	for _, h := range a.Hypotheses {
		out.Hypotheses = append(out.Hypotheses, Text(h))
	}
	return out
}

func lemmasFromManifest(path string, lemmas []manifestLemma) ([]LemmaSpec, error) {
	out := make([]LemmaSpec, 0, len(lemmas))
	for _, l := range lemmas {
		spec := LemmaSpec{
			Label:      l.Label,
			Conclusion: Text(l.Conclusion),
			Stub:       l.Stub,
		}
		for _, h := range l.Hypotheses {
			spec.Hypotheses = append(spec.Hypotheses, Text(h))
		}
		for i, ms := range l.Script {
			step, err := stepFromManifest(ms)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: %s: step %d: %w", path, l.Label, i, err)
			}
			spec.Script = append(spec.Script, step)
		}
		out = append(out, spec)
	}
	return out, nil
}

func stepFromManifest(ms manifestStep) (proof.Step, error) {
	switch {
	case ms.Hyp != nil:
		if ms.Ref != "" || len(ms.Compose) > 0 {
			return nil, fmt.Errorf("hyp step carries extra keys")
		}
		return proof.Hyp{Index: *ms.Hyp}, nil
	case ms.Ref != "":
		if len(ms.Compose) > 0 {
			return nil, fmt.Errorf("ref step carries a compose key")
		}
		return proof.Ref{Label: ms.Ref, Subst: proof.Subst(ms.Subst)}, nil
	case len(ms.Compose) > 0:
		if len(ms.Compose) != 2 {
			return nil, fmt.Errorf("compose wants two stack positions, got %d", len(ms.Compose))
		}
		if ms.Via == "" {
			return nil, fmt.Errorf("compose step is missing via")
		}
		return proof.Compose{A: ms.Compose[0], B: ms.Compose[1], Via: ms.Via}, nil
	default:
		return nil, fmt.Errorf("step is none of hyp, ref, compose")
	}
}
