// Package verifier runs an independent proof checker over emitted
// artifacts. The build pipeline trusts its own lowering engine; an
// external verifier closes the loop by re-checking the artifact with a
// separate implementation.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	tt "github.com/epistemic-frontier/metamath-logic/internal/types"
)

// Verifier re-checks one artifact file and reports failures as issues.
type Verifier interface {
	Verify(ctx context.Context, artifactPath string) ([]tt.Issue, error)
}

// report is the JSON document a conforming verifier binary prints.
type report struct {
	OK       bool `json:"ok"`
	Failures []struct {
		Label  string `json:"label"`
		Step   int    `json:"step"`
		Want   string `json:"want"`
		Got    string `json:"got"`
		Detail string `json:"detail"`
	} `json:"failures"`
}

// External invokes a verifier binary as `<binary> [args...] --json
// <artifact>` and parses its report from stdout.
type External struct {
	Binary string
	Args   []string
}

func (e External) Verify(ctx context.Context, artifactPath string) ([]tt.Issue, error) {
	if e.Binary == "" {
		return nil, fmt.Errorf("no verifier binary configured")
	}
	args := append(append([]string{}, e.Args...), "--json", artifactPath)
	cmd := exec.CommandContext(ctx, e.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var rep report
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("failed to run verifier %s: %w (stderr: %s)", e.Binary, runErr, stderr.String())
		}
		return nil, fmt.Errorf("failed to parse verifier output: %w", err)
	}

	// a conforming binary exits nonzero on failed proofs but still
	// prints a report; only a report-less failure is an execution error
	if rep.OK {
		return nil, nil
	}
	issues := make([]tt.Issue, 0, len(rep.Failures))
	for _, f := range rep.Failures {
		issues = append(issues, tt.Issue{
			Rule:     "external-verifier",
			Label:    f.Label,
			Step:     f.Step,
			Severity: tt.SeverityError,
			Message:  f.Detail,
			Want:     f.Want,
			Got:      f.Got,
		})
	}
	if len(issues) == 0 {
		issues = append(issues, tt.Issue{
			Rule:     "external-verifier",
			Step:     -1,
			Severity: tt.SeverityError,
			Message:  "verifier rejected the artifact without naming failures",
		})
	}
	return issues, nil
}

// Func adapts a plain function into a Verifier, for tests and in-process
// re-checking.
type Func func(ctx context.Context, artifactPath string) ([]tt.Issue, error)

func (f Func) Verify(ctx context.Context, artifactPath string) ([]tt.Issue, error) {
	return f(ctx, artifactPath)
}
