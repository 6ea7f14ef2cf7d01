package domain

import (
	"strings"
	"time"
)

// JobID identifies one of the predefined maintenance jobs
type JobID string

const (
	JobHourly JobID = "hourly"
	JobDaily  JobID = "daily"
)

// Jobs is the fixed allow-list of launchable jobs
var Jobs = []JobID{JobHourly, JobDaily}

// ParseJobID returns the JobID for s and whether it is allow-listed
func ParseJobID(s string) (JobID, bool) {
	for _, j := range Jobs {
		if string(j) == s {
			return j, true
		}
	}
	return "", false
}

// Title returns the capitalized job name used in messages
func (j JobID) Title() string {
	if j == "" {
		return ""
	}
	return strings.ToUpper(string(j[:1])) + string(j[1:])
}

// JobLaunchResult reports whether a job was started. It says nothing
// about whether the job later succeeded.
type JobLaunchResult struct {
	Job       JobID     `json:"job"`
	Started   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	PID       int       `json:"pid,omitempty"`
	LaunchID  string    `json:"launch_id,omitempty"`
	LogPath   string    `json:"log_path,omitempty"`
	Error     string    `json:"error,omitempty"`
}
