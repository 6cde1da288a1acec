package cmd

import (
	stdcontext "context"
	"fmt"
	"os"

	"github.com/graceinfra/zoscore/internal/config"
	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/log"
	"github.com/graceinfra/zoscore/internal/module"
	"github.com/graceinfra/zoscore/internal/resolver"
	"github.com/graceinfra/zoscore/types"
	"github.com/spf13/cobra"
)

// moduleFlags are shared by every module subcommand.
type moduleFlags struct {
	argsFile  string
	checkMode bool
}

func (f *moduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.argsFile, "args-file", "", "JSON or YAML file holding the module arguments")
	cmd.Flags().BoolVar(&f.checkMode, "check", false, "Report what would change without changing anything")
}

// loadArgs decodes the args file, given by --args-file or as the single
// positional argument, into params. Flags set on the command line are
// applied afterwards by the caller and win over the file.
func (f *moduleFlags) loadArgs(args []string, params any) error {
	path := f.argsFile
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil
	}
	return module.LoadArgs(path, params)
}

func outputStyle() types.OutputStyle {
	switch {
	case Human && Verbose:
		return types.StyleHumanVerbose
	case Human:
		return types.StyleHuman
	default:
		return types.StyleMachineJSON
	}
}

// newExecutionContext loads zoscore.yml and builds the context a module
// runs in.
func newExecutionContext(cmd *cobra.Command, name string, checkMode bool) (*context.ExecutionContext, error) {
	path := ConfigPath
	if path == "" {
		path = config.DefaultConfigFile
	}
	cfg, configDir, err := config.LoadOptionalConfig(path, ConfigPath != "")
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}

	deps := GetDependencies()
	ctx := context.New(cmdContext(cmd), name, cfg, log.NewLogger(outputStyle()), deps.Runner)
	ctx.ConfigDir = configDir
	ctx.CheckMode = checkMode
	if Record {
		ctx.RecordDir = resolver.ResolveRecordDir(cfg)
	}
	return ctx, nil
}

func cmdContext(cmd *cobra.Command) stdcontext.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return stdcontext.Background()
}

// runModule is the common body of a module subcommand. Module runs always
// return a populated result, also on error; empty is only emitted when the
// context cannot be built.
func runModule[P any, R types.Result](cmd *cobra.Command, name string, checkMode bool, params P, empty R, run func(*context.ExecutionContext, P) (R, error)) {
	ctx, err := newExecutionContext(cmd, name, checkMode)
	if err != nil {
		failEarly(empty, err)
		return
	}

	inv := module.Start(ctx, params)
	res, err := run(ctx, params)
	os.Exit(inv.Finish(res, err))
}

// failEarly emits a failed result when no context could be built.
func failEarly(res types.Result, err error) {
	res.Base().Fail(err)
	os.Exit(module.Emit(log.NewLogger(outputStyle()), res))
}

// override copies a flag value over the args-file value when the flag was
// given on the command line.
func override[T any](cmd *cobra.Command, name string, dst *T, v T) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}
