// Package formatter renders assembly issues into the colored terminal
// report the build command prints.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	tt "github.com/epistemic-frontier/metamath-logic/internal/types"
)

// rule set
const (
	StackUnderflow      = "stack-underflow"
	IndexOutOfRange     = "index-out-of-range"
	UnresolvedReference = "unresolved-reference"
	UnificationFailure  = "unification-failure"
	ConclusionMismatch  = "conclusion-mismatch"
	UnresolvedSpelling  = "unresolved-spelling"
	RedundantAssertion  = "redundant-assertion"
	ExportDropped       = "export-dropped"
	StubPresent         = "stub-present"
	SemanticAudit       = "semantic-audit"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	locationStyle   = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// issueFormatter is the interface that wraps the IssueTemplate method.
// Implementations pick the report layout for one family of issue rules.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter is a factory function that returns the appropriate
// issueFormatter based on the given rule. If no specific formatter is
// found for the given rule, it returns a GeneralIssueFormatter.
func getIssueFormatter(rule string) issueFormatter {
	switch rule {
	case ConclusionMismatch, UnificationFailure:
		return &ProofMismatchFormatter{}
	case ExportDropped, StubPresent:
		return &ExportPolicyFormatter{}
	case RedundantAssertion:
		return &RedundancyFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedIssue formats a slice of issues into a human-readable
// report. It uses the appropriate formatter for each issue based on its
// rule.
func GenerateFormattedIssue(issues []tt.Issue) string {
	var builder strings.Builder
	for _, issue := range issues {
		formatter := getIssueFormatter(issue.Rule)
		builder.WriteString(buildIssue(issue, formatter))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Severity   string
	Rule       string
	Location   string
	Message    string
	Want       string
	Got        string
	Suggestion string
	Note       string
	Padding    string
}

func buildIssue(issue tt.Issue, formatter issueFormatter) string {
	data := IssueData{
		Severity:   issue.Severity.String(),
		Rule:       issue.Rule,
		Location:   issue.Location(),
		Message:    issue.Message,
		Want:       issue.Want,
		Got:        issue.Got,
		Suggestion: issue.Suggestion,
		Note:       issue.Note,
		Padding:    "  ",
	}

	funcMap := template.FuncMap{
		"header":     header,
		"wantGot":    wantGot,
		"message":    message,
		"suggestion": suggestion,
		"note":       note,
		"policyHint": policyHint,
	}

	issueTemplate := formatter.IssueTemplate()
	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(issueTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(severity string, rule string, location string) string {
	var endString string
	switch severity {
	case "error":
		endString = errorStyle.Sprint("error: ")
	case "warning":
		endString = warningStyle.Sprint("warning: ")
	default:
		endString = messageStyle.Sprintf("%s: ", severity)
	}

	endString += ruleStyle.Sprintf("%s\n", rule)
	endString += lineStyle.Sprint(" --> ")
	endString += locationStyle.Sprintf("%s\n", location)

	return endString
}

// wantGot renders the expected/actual token sequences of a mismatch as
// a gutter block. Both empty means the issue carries no sequences and
// the block is omitted entirely.
func wantGot(want string, got string, padding string) string {
	if want == "" && got == "" {
		return ""
	}

	var endString string
	endString = lineStyle.Sprintf("%s|\n", padding)
	endString += lineStyle.Sprintf("%s| ", padding)
	endString += suggestionStyle.Sprint("want: ")
	endString += fmt.Sprintf("%s\n", want)
	endString += lineStyle.Sprintf("%s| ", padding)
	endString += messageStyle.Sprint("got:  ")
	endString += fmt.Sprintf("%s\n", got)

	return endString
}

func message(msg string, padding string) string {
	endString := lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", msg)
	return endString
}

func suggestion(suggestion string) string {
	if suggestion == "" {
		return ""
	}

	endString := suggestionStyle.Sprint("Suggestion: ")
	endString += lineStyle.Sprintf("%s\n", suggestion)
	return endString
}

func note(note string) string {
	if note == "" {
		return ""
	}

	endString := suggestionStyle.Sprint("Note: ")
	endString += lineStyle.Sprintf("%s\n", note)
	return endString
}

// policyHint appends the fixed explanation of an export policy rule.
func policyHint(rule string, padding string) string {
	var hint string
	switch rule {
	case ExportDropped:
		hint = "failed assertions are dropped from the exported set."
	case StubPresent:
		hint = "this workspace forbids unproven stubs; prove the assertion or allow stubs in the policy block."
	default:
		return ""
	}

	endString := warningStyle.Sprint("policy: ")
	endString += lineStyle.Sprintf("%s\n", hint)
	return endString
}
