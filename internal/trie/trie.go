package trie

import (
	"sort"
	"strings"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

/*
Arena-based Trie Implementation

The index stores token sequences as paths in a trie whose nodes live in
a single arena slice:

1. Memory Layout:
	- All nodes are held in one contiguous slice and referenced by index
	rather than by pointer. The root is always index 0.
	- New nodes are appended to the slice; an index, once handed out,
	stays valid for the lifetime of the arena.

2. Node Contents:
	- children maps the next token id on the path to the child node index.
	- A node with isEnd set terminates a stored sequence and carries the
	label under which that sequence was first inserted. First insertion
	wins; later insertions of the same sequence leave the label untouched.
*/

// NodeIndex represents the index of a trie node.
type NodeIndex int

// Arena is a memory pool that stores all trie nodes.
type Arena struct {
	nodes []arenaNode
}

// arenaNode is the internal representation of a trie node stored in the arena.
type arenaNode struct {
	// children stores child nodes. key is the next token id, value is the index of the child node.
	children map[symbols.ID]NodeIndex
	// label is the terminal label when isEnd is set.
	label string
	isEnd bool
}

// NewArena creates a new arena.
func NewArena() *Arena {
	arena := &Arena{
		nodes: make([]arenaNode, 0, 1024),
	}
	// root node (index 0)
	arena.nodes = append(arena.nodes, arenaNode{
		children: make(map[symbols.ID]NodeIndex),
	})
	return arena
}

// newNode adds a new node to the arena and returns its index.
func (a *Arena) newNode() NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode{
		children: make(map[symbols.ID]NodeIndex),
	})
	return idx
}

// Insert stores a token sequence under the given label. When the exact
// sequence is already present the stored label is returned with
// ok=false and nothing changes; otherwise the new label is returned
// with ok=true.
func (a *Arena) Insert(seq wff.TokenSeq, label string) (string, bool) {
	current := NodeIndex(0)

	for _, id := range seq {
		node := &a.nodes[current]
		childIdx, exists := node.children[id]

		if !exists {
			childIdx = a.newNode()
			node.children[id] = childIdx
		}

		current = childIdx
	}

	node := &a.nodes[current]
	if node.isEnd {
		return node.label, false
	}
	node.isEnd = true
	node.label = label
	return label, true
}

// Lookup reports the label stored for the exact sequence, if any.
func (a *Arena) Lookup(seq wff.TokenSeq) (string, bool) {
	current := NodeIndex(0)

	for _, id := range seq {
		childIdx, exists := a.nodes[current].children[id]
		if !exists {
			return "", false
		}
		current = childIdx
	}

	node := a.nodes[current]
	if !node.isEnd {
		return "", false
	}
	return node.label, true
}

// Len reports the number of stored sequences.
func (a *Arena) Len() int {
	n := 0
	for _, node := range a.nodes {
		if node.isEnd {
			n++
		}
	}
	return n
}

// Equal checks whether two tries are identical in structure and content.
func (a *Arena) Equal(b *Arena) bool {
	if len(a.nodes) != len(b.nodes) {
		return false
	}

	return a.equalNodes(NodeIndex(0), b, NodeIndex(0))
}

// equalNodes recursively checks whether two nodes (and their subtrees) are identical.
func (a *Arena) equalNodes(aIdx NodeIndex, b *Arena, bIdx NodeIndex) bool {
	nodeA := a.nodes[aIdx]
	nodeB := b.nodes[bIdx]

	if nodeA.isEnd != nodeB.isEnd || nodeA.label != nodeB.label || len(nodeA.children) != len(nodeB.children) {
		return false
	}

	keys := make([]symbols.ID, 0, len(nodeA.children))
	for key := range nodeA.children {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	// Compare children in sorted order
	for _, key := range keys {
		childA := nodeA.children[key]
		childB, exists := nodeB.children[key]
		if !exists || !a.equalNodes(childA, b, childB) {
			return false
		}
	}

	return true
}

// DebugString returns a string representation of the trie for debugging
// purposes, rendering token ids through the interner.
func (a *Arena) DebugString(in *symbols.Interner) string {
	return a.debugStringNode(NodeIndex(0), in)
}

// debugStringNode recursively generates a string representation of a specific node (and its subtree).
func (a *Arena) debugStringNode(idx NodeIndex, in *symbols.Interner) string {
	node := a.nodes[idx]
	var sb strings.Builder

	if node.isEnd {
		sb.WriteString("*")
		sb.WriteString(node.label)
	}

	keys := make([]symbols.ID, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		sb.WriteString(in.Name(key))
		sb.WriteString("(")
		sb.WriteString(a.debugStringNode(node.children[key], in))
		sb.WriteString(")")
	}

	return sb.String()
}

// Index is the conclusion index used by the assembler to flag lemmas
// that restate an already assembled result.
type Index struct {
	arena *Arena
}

// New returns an initialized Index.
func New() *Index {
	return &Index{
		arena: NewArena(),
	}
}

// Insert stores a conclusion under its label, reporting the earlier
// label instead when the conclusion is already indexed.
func (t *Index) Insert(seq wff.TokenSeq, label string) (string, bool) {
	return t.arena.Insert(seq, label)
}

// Lookup reports the label stored for the exact conclusion, if any.
func (t *Index) Lookup(seq wff.TokenSeq) (string, bool) {
	return t.arena.Lookup(seq)
}

// Len reports the number of indexed conclusions.
func (t *Index) Len() int {
	return t.arena.Len()
}

// Equal checks whether two indexes are identical in structure and content.
func (t *Index) Equal(other *Index) bool {
	return t.arena.Equal(other.arena)
}

// DebugString returns a string representation of the index for debugging purposes.
func (t *Index) DebugString(in *symbols.Interner) string {
	return t.arena.DebugString(in)
}
