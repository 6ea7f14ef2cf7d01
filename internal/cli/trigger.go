package cli

import (
	"github.com/vburojevic/sysdash/internal/dispatch"
	"github.com/vburojevic/sysdash/internal/output"
)

// TriggerCmd starts a maintenance job
type TriggerCmd struct {
	Job string `arg:"" help:"Job to start: hourly or daily"`
}

// Run executes the trigger command
func (c *TriggerCmd) Run(globals *Globals) error {
	res, err := newApp(globals).dispatcher.Launch(c.Job)
	if err != nil {
		return outputErrorCommon(globals, errorCode(err), err.Error())
	}
	if globals.Format == "json" {
		return output.NewJSONWriter(globals.Stdout).Write(res)
	}
	return output.WriteLaunch(globals.Stdout, res)
}

func errorCode(err error) string {
	switch dispatch.KindOf(err) {
	case dispatch.KindInvalidJob:
		return "INVALID_JOB"
	case dispatch.KindNotFound:
		return "SCRIPT_NOT_FOUND"
	default:
		return "LAUNCH_FAILED"
	}
}
