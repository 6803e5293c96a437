package internal

import "fmt"

// ExportPolicyErrorKind enumerates the fatal assembly policy violations.
type ExportPolicyErrorKind int

const (
	// DuplicateLabel reports a label registered twice in one build
	// context, or shadowing an imported label.
	DuplicateLabel ExportPolicyErrorKind = iota
	// StubExported reports a stub assertion named in the export list.
	StubExported
)

func (k ExportPolicyErrorKind) String() string {
	switch k {
	case DuplicateLabel:
		return "duplicate-label"
	case StubExported:
		return "stub-exported"
	default:
		return "unknown"
	}
}

// ExportPolicyError aborts assembly immediately: no partial package is
// produced. Prior names where the label was first seen, for duplicates.
type ExportPolicyError struct {
	Kind  ExportPolicyErrorKind
	Label string
	Prior string
}

func (e *ExportPolicyError) Error() string {
	switch e.Kind {
	case DuplicateLabel:
		if e.Prior != "" {
			return fmt.Sprintf("export policy: label %q is already registered (%s)", e.Label, e.Prior)
		}
		return fmt.Sprintf("export policy: label %q is already registered", e.Label)
	case StubExported:
		return fmt.Sprintf("export policy: stub %q cannot be exported", e.Label)
	default:
		return fmt.Sprintf("export policy: %q", e.Label)
	}
}
