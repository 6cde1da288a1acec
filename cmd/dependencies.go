package cmd

import (
	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/internal/unarchive"
)

type AppDependencies struct {
	Runner            runner.Runner
	UnarchiveRegistry *unarchive.HandlerRegistry
}

var appDependencies *AppDependencies

// SetDependencies allows for injecting application dependencies
func SetDependencies(deps *AppDependencies) {
	if deps == nil || deps.Runner == nil || deps.UnarchiveRegistry == nil {
		panic("critical error: attempted to set nil dependencies, runner or registry")
	}
	appDependencies = deps
}

// GetDependencies provides access to the dependencies.
// Panics if dependencies haven't been set (indicates setup error).
func GetDependencies() *AppDependencies {
	if appDependencies == nil {
		panic("critical error: application dependencies not set before access")
	}
	return appDependencies
}
