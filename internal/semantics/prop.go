package semantics

import "sort"

// Meaning is the declared classical reading of a connective.
type Meaning int

const (
	_ Meaning = iota
	Implication
	Negation
	Conjunction
	Disjunction
	Biconditional
)

// ParseMeaning maps an authoring keyword onto a Meaning.
func ParseMeaning(s string) (Meaning, bool) {
	switch s {
	case "implies":
		return Implication, true
	case "not":
		return Negation, true
	case "and":
		return Conjunction, true
	case "or":
		return Disjunction, true
	case "iff":
		return Biconditional, true
	default:
		return 0, false
	}
}

func (m Meaning) String() string {
	switch m {
	case Implication:
		return "implies"
	case Negation:
		return "not"
	case Conjunction:
		return "and"
	case Disjunction:
		return "or"
	case Biconditional:
		return "iff"
	default:
		return "?"
	}
}

// Arity returns the operand count the meaning requires of its connective.
func (m Meaning) Arity() int {
	if m == Negation {
		return 1
	}
	return 2
}

// symbol renders the meaning in canonical spelling for formula strings.
func (m Meaning) symbol() string {
	switch m {
	case Implication:
		return "->"
	case Negation:
		return "-."
	case Conjunction:
		return "/\\"
	case Disjunction:
		return "\\/"
	case Biconditional:
		return "<->"
	default:
		return "?"
	}
}

// Prop represents a decoded propositional formula.
type Prop interface {
	isProp()
	String() string
}

// AtomExpr represents a schema variable treated as a boolean atom.
type AtomExpr struct {
	Name string
}

func (AtomExpr) isProp() {}
func (e AtomExpr) String() string {
	return e.Name
}

// NotExpr represents a negation.
type NotExpr struct {
	Operand Prop
}

func (NotExpr) isProp() {}
func (e NotExpr) String() string {
	return "-. " + e.Operand.String()
}

// BinExpr represents a binary connective application.
type BinExpr struct {
	Op    Meaning
	Left  Prop
	Right Prop
}

func (BinExpr) isProp() {}
func (e BinExpr) String() string {
	return "( " + e.Left.String() + " " + e.Op.symbol() + " " + e.Right.String() + " )"
}

// Helper constructors.

// Atom creates a boolean atom.
func Atom(name string) Prop {
	return AtomExpr{Name: name}
}

// Not creates a negation.
func Not(p Prop) Prop {
	return NotExpr{Operand: p}
}

// And creates a conjunction.
func And(left, right Prop) Prop {
	return BinExpr{Op: Conjunction, Left: left, Right: right}
}

// Or creates a disjunction.
func Or(left, right Prop) Prop {
	return BinExpr{Op: Disjunction, Left: left, Right: right}
}

// Implies creates an implication.
func Implies(left, right Prop) Prop {
	return BinExpr{Op: Implication, Left: left, Right: right}
}

// Iff creates a biconditional.
func Iff(left, right Prop) Prop {
	return BinExpr{Op: Biconditional, Left: left, Right: right}
}

// Atoms lists the distinct atom names of a formula in sorted order.
func Atoms(p Prop) []string {
	seen := make(map[string]bool)
	collectAtoms(p, seen)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectAtoms(p Prop, seen map[string]bool) {
	switch e := p.(type) {
	case AtomExpr:
		seen[e.Name] = true
	case NotExpr:
		collectAtoms(e.Operand, seen)
	case BinExpr:
		collectAtoms(e.Left, seen)
		collectAtoms(e.Right, seen)
	}
}
