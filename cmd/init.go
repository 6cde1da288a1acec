package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/graceinfra/zoscore/internal/config"
	"github.com/graceinfra/zoscore/internal/templates"
	"github.com/graceinfra/zoscore/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Write a starter zoscore.yml",
	Long: `Init scaffolds a zoscore.yml holding the defaults shared by every module
run from that directory: the Zowe profile, the high-level qualifier for
temporary data sets, the job wait time and the invocation record directory.

An interactive prompt collects the values. Known Zowe profiles from
~/.zowe/zowe.config.json are offered as the profile default.`,
	Run: func(cmd *cobra.Command, args []string) {
		targetDir := "."
		if len(args) > 0 {
			targetDir = args[0]
		}

		answers, canceled := RunInitTUI(defaultProfile())
		if canceled {
			fmt.Println("✖ zoscore init canceled.")
			return
		}

		if targetDir != "." {
			utils.MkDir(targetDir)
		}

		outPath := filepath.Join(targetDir, config.DefaultConfigFile)
		utils.MustNotExist(outPath)

		fmt.Printf("↪ writing %s ...\n", outPath)
		cobra.CheckErr(templates.WriteTpl("files/zoscore.yml.tmpl", outPath, answers))
		utils.MkDir(targetDir, answers.RecordDir)

		// The rendered file must load back cleanly.
		_, _, err := config.LoadConfig(outPath)
		cobra.CheckErr(err)

		fmt.Printf("✓ %s initialized!\n", outPath)
	},
}

// defaultProfile picks the first zosmf profile of the user's Zowe team
// configuration, or "zosmf" when none can be read.
func defaultProfile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "zosmf"
	}
	profiles, err := zoweProfiles(home)
	if err != nil || len(profiles) == 0 {
		return "zosmf"
	}
	return profiles[0]
}
