package internal

import (
	"github.com/epistemic-frontier/metamath-logic/internal/artifact"
	"github.com/epistemic-frontier/metamath-logic/internal/proof"
)

// ImportedSet reconstructs the exported assertion views of a package
// from its artifact, keyed by label. It is the read-side counterpart of
// Package.ExportedSet: a downstream build fed the returned map sees the
// same imports whether the upstream package was assembled in-process or
// loaded from a previously written artifact.
func ImportedSet(a artifact.Artifact) map[string]proof.Imported {
	byLabel := make(map[string]artifact.Statement, len(a.Statements))
	for _, st := range a.Statements {
		byLabel[st.Label] = st
	}

	out := make(map[string]proof.Imported, len(a.Exported))
	for _, label := range a.Exported {
		st, ok := byLabel[label]
		if !ok {
			continue
		}
		imp := proof.Imported{
			Label:       st.Label,
			Conclusion:  st.Conclusion,
			Composition: st.Composition,
		}
		for _, h := range st.Hypotheses {
			ih := proof.ImportedHypothesis{
				Label:    h.Label,
				Kind:     proof.Essential,
				Typecode: h.Typecode,
				Tokens:   h.Tokens,
			}
			if h.Kind == artifact.HypFloating {
				ih.Kind = proof.Floating
				imp.Floating = append(imp.Floating, ih)
				continue
			}
			imp.Essential = append(imp.Essential, ih)
		}
		out[label] = imp
	}
	return out
}
