package dispatch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a launch did not happen
type ErrorKind string

const (
	// KindInvalidJob: the job name is not on the allow-list
	KindInvalidJob ErrorKind = "invalid_job"
	// KindNotFound: the job script does not exist
	KindNotFound ErrorKind = "not_found"
	// KindLaunchFailed: the process could not be started
	KindLaunchFailed ErrorKind = "launch_failed"
)

// JobError is returned for every rejected or failed launch
type JobError struct {
	Kind ErrorKind
	Job  string
	Path string
	Err  error
}

func (e *JobError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindInvalidJob:
		return fmt.Sprintf("invalid job type: %q", e.Job)
	case KindNotFound:
		return fmt.Sprintf("script not found: %s", e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("failed to start %s job: %v", e.Job, e.Err)
		}
		return fmt.Sprintf("failed to start %s job", e.Job)
	}
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// KindOf returns the JobError kind of err, or "" for other errors
func KindOf(err error) ErrorKind {
	var je *JobError
	if errors.As(err, &je) {
		return je.Kind
	}
	return ""
}
