package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/sysdash/internal/output"
)

// outputErrorCommon normalizes error emission across commands, respecting
// json vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string) error {
	if globals != nil && globals.Format == "json" {
		_ = output.NewJSONWriter(globals.Stdout).WriteError(code, message)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
	}
	return errors.New(message)
}
