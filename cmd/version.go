package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/graceinfra/zoscore/cmd.Version=...".
var Version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the zoscore version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("zoscore " + Version)
	},
}
