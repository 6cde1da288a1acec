package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Verbose    bool
	Human      bool
	ConfigPath string
	LogFile    string
	Record     bool
)

var rootCmd = &cobra.Command{
	Use:   "zoscore",
	Short: "zoscore automates archives, programs and jobs on z/OS",
	Long: `zoscore is a set of automation modules for IBM z/OS.

Each module subcommand takes declarative task parameters, either as flags or
as a JSON/YAML args file, does its work through the ZOAU host utilities, the
Zowe CLI or Go archive libraries, and prints one JSON result on stdout.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("zoscore: z/OS automation modules. See 'zoscore --help'.")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable verbose logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&Human, "human", false, "Print a readable summary instead of JSON")
	rootCmd.PersistentFlags().StringVar(&ConfigPath, "config", "", "Path to zoscore.yml (default ./zoscore.yml when present)")
	rootCmd.PersistentFlags().StringVar(&LogFile, "log-file", "", "Write JSON logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&Record, "record", false, "Save an invocation record under the configured record_dir")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
