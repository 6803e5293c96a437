package wff

import "fmt"

// Definition is an authoring-time macro: a derived connective that
// expands into primitive material before compilation. Definitions never
// add axioms or inference power; they only abbreviate.
type Definition struct {
	// Label names the emitted definition record ("df-or").
	Label string
	// Name is the derived connective spelling ("\/").
	Name string
	// Params are the placeholder variables of Body, positional.
	Params []string
	// Body is the expansion with Params as free variables.
	Body Expr
}

// Instantiate substitutes args for the definition's parameters in a copy
// of the body.
func (d Definition) Instantiate(args []Expr) (Expr, error) {
	if len(args) != len(d.Params) {
		return nil, &CompileError{Kind: ArityMismatch, Op: d.Name, Want: len(d.Params), Got: len(args)}
	}
	binding := make(map[string]Expr, len(d.Params))
	for i, p := range d.Params {
		binding[p] = args[i]
	}
	return substitute(d.Body, binding), nil
}

func substitute(e Expr, binding map[string]Expr) Expr {
	switch node := e.(type) {
	case Var:
		if repl, ok := binding[node.Name]; ok {
			return repl
		}
		return node
	case Apply:
		args := make([]Expr, len(node.Args))
		for i, arg := range node.Args {
			args[i] = substitute(arg, binding)
		}
		return Apply{Op: node.Op, Args: args}
	default:
		return e
	}
}

const maxExpansionDepth = 64

// ExpandMacros rewrites every defined connective in e using defs, keyed
// by connective spelling. Expansion is depth-limited so mutually
// recursive definitions fail instead of looping.
func ExpandMacros(e Expr, defs map[string]Definition) (Expr, error) {
	return expand(e, defs, 0)
}

func expand(e Expr, defs map[string]Definition, depth int) (Expr, error) {
	if depth > maxExpansionDepth {
		return nil, fmt.Errorf("definition expansion exceeded depth %d", maxExpansionDepth)
	}
	app, ok := e.(Apply)
	if !ok {
		return e, nil
	}
	args := make([]Expr, len(app.Args))
	for i, arg := range app.Args {
		expanded, err := expand(arg, defs, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = expanded
	}
	def, ok := defs[app.Op]
	if !ok {
		return Apply{Op: app.Op, Args: args}, nil
	}
	body, err := def.Instantiate(args)
	if err != nil {
		return nil, err
	}
	return expand(body, defs, depth+1)
}
