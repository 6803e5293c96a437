package proof

import "fmt"

// LoweringErrorKind classifies proof lowering failures.
type LoweringErrorKind int

const (
	StackUnderflow LoweringErrorKind = iota
	IndexOutOfRange
	UnresolvedReference
	UnificationFailure
	ConclusionMismatch
)

func (k LoweringErrorKind) String() string {
	switch k {
	case StackUnderflow:
		return "stack-underflow"
	case IndexOutOfRange:
		return "index-out-of-range"
	case UnresolvedReference:
		return "unresolved-reference"
	case UnificationFailure:
		return "unification-failure"
	case ConclusionMismatch:
		return "conclusion-mismatch"
	default:
		return "unknown"
	}
}

// LoweringError reports a proof script the stack machine rejects. Label
// is the assertion being proven and Step the 0-based index of the
// offending step; Step is -1 only when an empty script fails its terminal
// check.
type LoweringError struct {
	Label string
	Step  int
	Kind  LoweringErrorKind
	Msg   string

	// Want and Got carry rendered token sequences for mismatches.
	Want string
	Got  string

	// Suggestion optionally names a near-miss label.
	Suggestion string

	// Err is the underlying cause when a substitution fails to compile.
	Err error
}

func (e *LoweringError) Error() string {
	return fmt.Sprintf("proof of %q step %d: %s: %s", e.Label, e.Step, e.Kind, e.Msg)
}

func (e *LoweringError) Unwrap() error { return e.Err }
