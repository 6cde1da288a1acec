package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/graceinfra/zoscore/cmd"
	"github.com/graceinfra/zoscore/internal/logging"
	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/internal/unarchive"
	"github.com/rs/zerolog/log"
)

func main() {
	// The logger must exist before cobra parses flags, so scan for the
	// logging flags by hand.
	isVerbose := false
	logFilePath := "" // Default to terminal logging

	for i, arg := range os.Args {
		if arg == "--verbose" || arg == "-v" {
			isVerbose = true
		}
		if arg == "--log-file" && i+1 < len(os.Args) {
			logFilePath = os.Args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--log-file="); ok {
			logFilePath = v
		}
	}

	err := logging.ConfigureGlobalLogger(isVerbose, logFilePath)
	if err != nil {
		// Fallback to basic stderr if logger setup fails
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cmd.SetDependencies(&cmd.AppDependencies{
		Runner:            runner.NewExecRunner(),
		UnarchiveRegistry: unarchive.DefaultRegistry(),
	})

	log.Debug().Msg("Starting zoscore command execution")
	cmd.Execute()
}
