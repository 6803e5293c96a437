package formatter

// ExportPolicyFormatter lays out export policy violations with the
// fixed policy explanation appended.
type ExportPolicyFormatter struct{}

func (f *ExportPolicyFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .Location -}}
{{message .Message .Padding}}
{{- if .Note }}
{{note .Note}}
{{- end }}
{{- policyHint .Rule .Padding}}
`
}
