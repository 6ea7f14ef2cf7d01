package domain

import "time"

// DefaultReportMarkdown is served when no report has been written yet
const DefaultReportMarkdown = "# No report available yet\n\nRun daily maintenance to generate a report."

// ReportDocument is the latest maintenance report and its rendered HTML
type ReportDocument struct {
	Markdown  string     `json:"markdown"`
	HTML      string     `json:"html"`
	Timestamp *time.Time `json:"timestamp"`
}
