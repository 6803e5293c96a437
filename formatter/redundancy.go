package formatter

// RedundancyFormatter lays out duplicate-shape warnings. The note names
// the earlier assertion with the same shape, so the layout is just the
// locator, the message and that pointer.
type RedundancyFormatter struct{}

func (f *RedundancyFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .Location -}}
{{message .Message .Padding -}}
{{note .Note}}
`
}
