package semantics

import (
	"fmt"
	"sort"
	"strings"
)

// Assignment maps atom names onto truth values.
type Assignment map[string]bool

// String renders the assignment with sorted atom names, for reports.
func (a Assignment) String() string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, a[name]))
	}
	return strings.Join(parts, ", ")
}

// Eval evaluates a formula under the assignment. Atoms missing from the
// assignment read as false.
func Eval(p Prop, env Assignment) bool {
	switch e := p.(type) {
	case AtomExpr:
		return env[e.Name]
	case NotExpr:
		return !Eval(e.Operand, env)
	case BinExpr:
		left := Eval(e.Left, env)
		right := Eval(e.Right, env)
		switch e.Op {
		case Implication:
			return !left || right
		case Conjunction:
			return left && right
		case Disjunction:
			return left || right
		case Biconditional:
			return left == right
		}
	}
	return false
}

// Countermodel searches the assignments of p for one that falsifies it.
// ok reports whether a countermodel was found; a false ok means p is a
// tautology.
func Countermodel(p Prop) (Assignment, bool) {
	atoms := Atoms(p)
	for mask := 0; mask < 1<<len(atoms); mask++ {
		env := make(Assignment, len(atoms))
		for i, name := range atoms {
			env[name] = mask&(1<<i) != 0
		}
		if !Eval(p, env) {
			return env, true
		}
	}
	return nil, false
}
