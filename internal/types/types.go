package types

import (
	"fmt"
	"strings"
)

// Severity classifies how a reported issue affects the build.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOff:
		return "off"
	default:
		return "unknown"
	}
}

// UnmarshalYAML accepts the lowercase severity names used in .mlc.yaml.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch strings.ToLower(raw) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "off":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity %q", raw)
	}
	return nil
}

// MarshalYAML writes the lowercase severity name.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// ConfigRule carries the per-rule overrides a workspace config may set.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// Issue is one diagnostic produced while assembling a logic package.
// Label and Step locate the failing assertion; Step is a 0-based proof
// step index, or -1 when the issue is not tied to a particular step.
type Issue struct {
	Rule       string   `json:"rule"`
	Package    string   `json:"package"`
	Label      string   `json:"label,omitempty"`
	Step       int      `json:"step"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Want       string   `json:"want,omitempty"`
	Got        string   `json:"got,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Note       string   `json:"note,omitempty"`
}

// Location renders the package/label/step locator used in reports.
func (i Issue) Location() string {
	var b strings.Builder
	b.WriteString(i.Package)
	if i.Label != "" {
		b.WriteString("/")
		b.WriteString(i.Label)
	}
	if i.Step >= 0 {
		fmt.Fprintf(&b, " step %d", i.Step)
	}
	return b.String()
}
