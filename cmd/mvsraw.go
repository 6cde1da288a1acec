package cmd

import (
	"github.com/graceinfra/zoscore/internal/mvsraw"
	"github.com/graceinfra/zoscore/types"
	"github.com/spf13/cobra"
)

var mvsRawOpts struct {
	moduleFlags

	program string
	auth    bool
	parm    string
	maxRC   int
	tmpHLQ  string
}

func init() {
	rootCmd.AddCommand(mvsRawCmd)

	f := mvsRawCmd.Flags()
	mvsRawOpts.register(mvsRawCmd)
	f.StringVar(&mvsRawOpts.program, "program-name", "", "Program to run")
	f.BoolVar(&mvsRawOpts.auth, "auth", false, "Run the program APF authorized through mvscmdauth")
	f.StringVar(&mvsRawOpts.parm, "parm", "", "PARM string passed to the program")
	f.IntVar(&mvsRawOpts.maxRC, "max-rc", 0, "Highest return code that still counts as success")
	f.StringVar(&mvsRawOpts.tmpHLQ, "tmp-hlq", "", "High-level qualifier for temporary data sets")
}

var mvsRawCmd = &cobra.Command{
	Use:   "mvs-raw [args-file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Run an MVS program with DD statements",
	Long: `mvs-raw runs a program through mvscmd (or mvscmdauth with --auth).

DD statements come from the args file 'dds' list: dd_data_set, dd_unix,
dd_input, dd_output, dd_dummy and dd_concat. Content of any DD with
return_content set is returned in dd_names.`,
	Run: func(cmd *cobra.Command, args []string) {
		var params types.MVSRawParams
		if err := mvsRawOpts.loadArgs(args, &params); err != nil {
			failEarly(&types.MVSRawResult{}, err)
		}

		o := &mvsRawOpts
		override(cmd, "program-name", &params.ProgramName, o.program)
		override(cmd, "auth", &params.Auth, o.auth)
		override(cmd, "parm", &params.Parm, o.parm)
		override(cmd, "max-rc", &params.MaxRC, o.maxRC)
		override(cmd, "tmp-hlq", &params.TmpHLQ, o.tmpHLQ)
		override(cmd, "verbose", &params.Verbose, Verbose)

		runModule(cmd, "mvs-raw", o.checkMode || params.CheckMode, params, &types.MVSRawResult{}, mvsraw.Run)
	},
}
