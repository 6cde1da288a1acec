package cmd

import (
	"fmt"
	"os"

	"github.com/graceinfra/zoscore/internal/config"
	"github.com/graceinfra/zoscore/internal/module"
	"github.com/spf13/cobra"
)

var lintArgs bool

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintArgs, "args", false, "Check that the file parses as a module args file instead of zoscore.yml")
}

var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Validate a zoscore.yml file",
	Long: `Lint checks a zoscore.yml for unknown keys, a valid temporary HLQ, a
well-formed Zowe profile name and sane tool overrides, without running any
module.

With --args the file is instead parsed as a module args file, which must be
a JSON or YAML mapping.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		lintFile := config.DefaultConfigFile

		if len(args) > 0 {
			lintFile = args[0]
		}

		fmt.Printf("Linting file: %s\n", lintFile)

		var err error
		if lintArgs {
			var parsed map[string]any
			err = module.LoadArgs(lintFile, &parsed)
		} else {
			_, _, err = config.LoadConfig(lintFile)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "✖ Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ %s is valid!\n", lintFile)
	},
}
