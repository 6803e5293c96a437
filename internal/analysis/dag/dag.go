// Package dag derives the justification graph of a lowered proof. Nodes
// are proof steps with their produced formulas; edges follow the
// discharge and composition provenance the lowerer recorded. The graph
// renders to GraphViz dot for inspection.
package dag

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/epistemic-frontier/metamath-logic/internal/proof"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

// Node is one proof step in the graph.
type Node struct {
	Index  int
	Kind   proof.StepKind
	Label  string
	Result string
	Deps   []int
}

// Graph is the dependency DAG of one lowered proof. Edges point from a
// step to the later steps that consume its result; the final step is
// the terminal node carrying the conclusion.
type Graph struct {
	Label      string
	Conclusion string

	nodes []Node
	uses  map[int][]int
}

// FromProof builds the graph of a lowered proof, rendering step results
// in the skeleton's display notation.
func FromProof(l *proof.Lowered, sk *wff.Skeleton) *Graph {
	g := &Graph{
		Label:      l.Label,
		Conclusion: render(sk, l.Conclusion),
		uses:       make(map[int][]int),
	}
	for _, s := range l.Steps {
		g.nodes = append(g.nodes, Node{
			Index:  s.Index,
			Kind:   s.Kind,
			Label:  s.Label,
			Result: render(sk, s.Result),
			Deps:   append([]int(nil), s.Deps...),
		})
		for _, d := range s.Deps {
			g.uses[d] = append(g.uses[d], s.Index)
		}
	}
	return g
}

func render(sk *wff.Skeleton, seq wff.TokenSeq) string {
	if text, err := sk.RenderInfix(seq); err == nil {
		return text
	}
	return seq.Render(sk.Interner())
}

// Nodes returns the steps in proof order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Node returns the step at the given index.
func (g *Graph) Node(i int) (Node, bool) {
	if i < 0 || i >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Uses lists the steps that consume the result of step i, in proof
// order.
func (g *Graph) Uses(i int) []int {
	return g.uses[i]
}

// Terminal returns the final step, whose result is the proven
// conclusion.
func (g *Graph) Terminal() (Node, bool) {
	if len(g.nodes) == 0 {
		return Node{}, false
	}
	return g.nodes[len(g.nodes)-1], true
}

// Roots lists steps no later step consumes. A verified proof has
// exactly one root, the terminal step; stray roots indicate dead
// branches and never survive lowering.
func (g *Graph) Roots() []int {
	var out []int
	for _, n := range g.nodes {
		if len(g.uses[n.Index]) == 0 {
			out = append(out, n.Index)
		}
	}
	return out
}

// PrintDot writes the graph in GraphViz dot form. The label hook may
// override a node's display text; nil or empty falls back to the
// default "index: kind label" plus the rendered result.
func (g *Graph) PrintDot(w io.Writer, label func(Node) string) {
	fmt.Fprintf(w, "digraph %q {\n", g.Label)
	fmt.Fprintln(w, "  rankdir=TB;")
	fmt.Fprintln(w, "  node [shape=box, fontname=\"monospace\"];")
	for _, n := range g.nodes {
		text := ""
		if label != nil {
			text = label(n)
		}
		if text == "" {
			text = fmt.Sprintf("%d: %s %s\\n%s", n.Index, n.Kind, n.Label, escape(n.Result))
		}
		fmt.Fprintf(w, "  s%d [label=\"%s\"];\n", n.Index, text)
	}
	for _, n := range g.nodes {
		for _, d := range n.Deps {
			fmt.Fprintf(w, "  s%d -> s%d;\n", d, n.Index)
		}
	}
	fmt.Fprintln(w, "}")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// RenderToGraphVizFile runs the dot tool over the given dot source and
// writes the rendered image to outputPath. The image format follows the
// output extension, defaulting to svg.
func RenderToGraphVizFile(dotContent []byte, outputPath string) error {
	format := strings.TrimPrefix(filepath.Ext(outputPath), ".")
	if format == "" {
		format = "svg"
	}

	tmp, err := os.CreateTemp("", "proof-*.dot")
	if err != nil {
		return fmt.Errorf("failed to create temp dot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(dotContent); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dot content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp dot file: %w", err)
	}

	cmd := exec.Command("dot", "-T"+format, tmp.Name(), "-o", outputPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to run dot: %w (output: %s)", err, output)
	}
	return nil
}
