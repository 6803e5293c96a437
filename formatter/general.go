package formatter

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .Location -}}
{{message .Message .Padding}}
{{- if .Suggestion }}
{{suggestion .Suggestion}}
{{- end }}
{{- if .Note }}
{{note .Note}}
{{- end }}
`
}
