package proof

import (
	"fmt"
	"sort"
	"strings"
)

// Subst maps schema variable spellings of a referenced assertion to local
// formula text. Keys may use alias spellings; they are resolved before
// unification.
type Subst map[string]string

// Step is one instruction of a structured proof script.
type Step interface {
	isStep()
	String() string
}

// Hyp pushes the assertion's own essential hypothesis at Index.
type Hyp struct {
	Index int
}

func (Hyp) isStep() {}
func (s Hyp) String() string {
	return fmt.Sprintf("hyp %d", s.Index)
}

// Ref applies a previously assembled assertion under a substitution.
type Ref struct {
	Label string
	Subst Subst
}

func (Ref) isStep() {}
func (s Ref) String() string {
	if len(s.Subst) == 0 {
		return "ref " + s.Label
	}
	keys := make([]string, 0, len(s.Subst))
	for k := range s.Subst {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	fmt.Fprintf(&b, "ref %s {", s.Label)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " %s := %q", k, s.Subst[k])
	}
	b.WriteString(" }")
	return b.String()
}

// Compose pops the antecedent entry at stack position A and the
// implication entry at position B and pushes the consequent. Via names
// the composition rule justifying the step.
type Compose struct {
	A   int
	B   int
	Via string
}

func (Compose) isStep() {}
func (s Compose) String() string {
	return fmt.Sprintf("compose %d %d via %s", s.A, s.B, s.Via)
}

// Script is an ordered list of proof steps.
type Script []Step

// Builder accumulates a script fluently. Positions in Compose refer to
// the stack as it stands when the step runs; authors track the stack
// discipline documented in the package comment.
type Builder struct {
	steps Script
}

func NewScript() *Builder {
	return &Builder{}
}

func (b *Builder) Hyp(index int) *Builder {
	b.steps = append(b.steps, Hyp{Index: index})
	return b
}

func (b *Builder) Ref(label string, subst Subst) *Builder {
	b.steps = append(b.steps, Ref{Label: label, Subst: subst})
	return b
}

func (b *Builder) Compose(a, pos int, via string) *Builder {
	b.steps = append(b.steps, Compose{A: a, B: pos, Via: via})
	return b
}

func (b *Builder) Build() Script {
	return b.steps
}

// Identity builds the substitution mapping each listed variable to
// itself.
func Identity(vars []string) Subst {
	subst := make(Subst, len(vars))
	for _, v := range vars {
		subst[v] = v
	}
	return subst
}
