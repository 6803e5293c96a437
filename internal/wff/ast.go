package wff

import "strings"

// Expr represents a node of an authored formula tree.
type Expr interface {
	isExpr()
	String() string
}

// Var references a schema variable by spelling. The spelling may be an
// alias; resolution happens at compile time.
type Var struct {
	Name string
}

func (Var) isExpr() {}
func (v Var) String() string {
	return v.Name
}

// Apply applies a connective to operand subtrees in declared order.
type Apply struct {
	Op   string
	Args []Expr
}

func (Apply) isExpr() {}
func (a Apply) String() string {
	switch len(a.Args) {
	case 1:
		return a.Op + " " + a.Args[0].String()
	case 2:
		return "( " + a.Args[0].String() + " " + a.Op + " " + a.Args[1].String() + " )"
	default:
		var b strings.Builder
		b.WriteString("( ")
		b.WriteString(a.Op)
		for _, arg := range a.Args {
			b.WriteString(" ")
			b.WriteString(arg.String())
		}
		b.WriteString(" )")
		return b.String()
	}
}

// V is shorthand for a variable reference.
func V(name string) Var { return Var{Name: name} }

// App builds an application node.
func App(op string, args ...Expr) Apply {
	return Apply{Op: op, Args: args}
}

// Walk visits e depth-first, parents before children.
func Walk(e Expr, visit func(Expr)) {
	visit(e)
	if app, ok := e.(Apply); ok {
		for _, arg := range app.Args {
			Walk(arg, visit)
		}
	}
}
