package domain

// Severity names the buckets used by alert and recommendation documents
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityInfo     Severity = "info"
)

// Alert is a single alert record written by the maintenance jobs.
// Unknown keys are preserved in Extra so nothing the jobs write is lost.
type Alert struct {
	Title     string         `json:"title,omitempty"`
	Message   string         `json:"message,omitempty"`
	Source    string         `json:"source,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	Extra     map[string]any `json:"-"`
}

// AlertSummary groups alerts by severity. Total counts critical, high and
// medium only; info alerts are informational.
type AlertSummary struct {
	Critical []Alert `json:"critical"`
	High     []Alert `json:"high"`
	Medium   []Alert `json:"medium"`
	Info     []Alert `json:"info"`
	Total    int     `json:"total"`
}

// NewAlertSummary builds a summary and computes Total from the buckets.
// Nil buckets are normalized to empty slices so they encode as [].
func NewAlertSummary(critical, high, medium, info []Alert) AlertSummary {
	s := AlertSummary{
		Critical: nonNil(critical),
		High:     nonNil(high),
		Medium:   nonNil(medium),
		Info:     nonNil(info),
	}
	s.Recount()
	return s
}

// Recount recomputes Total from the severity buckets
func (s *AlertSummary) Recount() {
	s.Total = len(s.Critical) + len(s.High) + len(s.Medium)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
