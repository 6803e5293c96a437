package formatter

// ProofMismatchFormatter lays out lowering failures that carry the
// expected and actual token sequences: the mismatch block leads, the
// step message explains it.
type ProofMismatchFormatter struct{}

func (f *ProofMismatchFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .Location -}}
{{wantGot .Want .Got .Padding -}}
{{message .Message .Padding}}
{{- if .Suggestion }}
{{suggestion .Suggestion}}
{{- end }}
{{- if .Note }}
{{note .Note}}
{{- end }}
`
}
