package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitFailure
	}
	return ExitOK
}
