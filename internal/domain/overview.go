package domain

// Overview bundles the views shown together on the dashboard
type Overview struct {
	Status   StatusSnapshot `json:"status"`
	Alerts   AlertSummary   `json:"alerts"`
	Activity []string       `json:"activity"`
}
