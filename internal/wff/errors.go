package wff

import "fmt"

// CompileErrorKind classifies compilation bridge failures.
type CompileErrorKind int

const (
	ArityMismatch CompileErrorKind = iota
	UnboundVariable
)

func (k CompileErrorKind) String() string {
	switch k {
	case ArityMismatch:
		return "arity-mismatch"
	case UnboundVariable:
		return "unbound-variable"
	default:
		return "unknown"
	}
}

// CompileError reports a formula tree the bridge cannot lower.
type CompileError struct {
	Kind CompileErrorKind

	// Op, Want and Got are set for arity mismatches.
	Op   string
	Want int
	Got  int

	// Variable is set for unbound variables.
	Variable string
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case ArityMismatch:
		return fmt.Sprintf("connective %q expects %d operands, got %d", e.Op, e.Want, e.Got)
	case UnboundVariable:
		return fmt.Sprintf("variable %q is not declared in the language skeleton", e.Variable)
	default:
		return "unknown compile error"
	}
}

// ParseError reports a formula text the front end cannot read.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Line, e.Col, e.Msg)
}
