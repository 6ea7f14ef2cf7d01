package domain

// LogType selects which log file /api/logs reads
type LogType string

const (
	LogTypeActivity LogType = "activity"
	LogTypeSysadmin LogType = "sysadmin"
)

// ParseLogType maps a request value to a LogType. Anything that is not
// "activity" resolves to the system log.
func ParseLogType(s string) LogType {
	if LogType(s) == LogTypeActivity {
		return LogTypeActivity
	}
	return LogTypeSysadmin
}

// Line bounds shared by every tail request
const (
	DefaultLogLines = 100
	MaxLogLines     = 5000
)
