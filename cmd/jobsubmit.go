package cmd

import (
	"github.com/graceinfra/zoscore/internal/jobsubmit"
	"github.com/graceinfra/zoscore/types"
	"github.com/spf13/cobra"
)

var jobSubmitOpts struct {
	moduleFlags

	src          string
	location     string
	waitTimeS    int
	maxRC        int
	returnOutput bool
	useTemplate  bool
	vars         map[string]string
}

func init() {
	rootCmd.AddCommand(jobSubmitCmd)

	f := jobSubmitCmd.Flags()
	jobSubmitOpts.register(jobSubmitCmd)
	f.StringVar(&jobSubmitOpts.src, "src", "", "JCL data set, USS file or local file to submit")
	f.StringVar(&jobSubmitOpts.location, "location", "", "Where src lives: DATA_SET, USS or LOCAL (default DATA_SET)")
	f.IntVar(&jobSubmitOpts.waitTimeS, "wait-time-s", 0, "Seconds to wait for the job to finish (default from zoscore.yml, else 10)")
	f.IntVar(&jobSubmitOpts.maxRC, "max-rc", 0, "Highest job return code that still counts as success")
	f.BoolVar(&jobSubmitOpts.returnOutput, "return-output", false, "Return the job's spool output")
	f.BoolVar(&jobSubmitOpts.useTemplate, "use-template", false, "Render a LOCAL src as a template before submitting")
	f.StringToStringVar(&jobSubmitOpts.vars, "var", nil, "Template variable as key=value, repeatable")
}

var jobSubmitCmd = &cobra.Command{
	Use:   "job-submit [args-file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Submit a job through Zowe and wait for it to finish",
	Run: func(cmd *cobra.Command, args []string) {
		var params types.JobSubmitParams
		if err := jobSubmitOpts.loadArgs(args, &params); err != nil {
			failEarly(&types.JobSubmitResult{}, err)
		}

		o := &jobSubmitOpts
		override(cmd, "src", &params.Src, o.src)
		override(cmd, "location", &params.Location, o.location)
		override(cmd, "wait-time-s", &params.WaitTimeS, o.waitTimeS)
		if cmd.Flags().Changed("max-rc") {
			params.MaxRC = &o.maxRC
		}
		override(cmd, "return-output", &params.ReturnOutput, o.returnOutput)
		override(cmd, "use-template", &params.UseTemplate, o.useTemplate)
		if len(o.vars) > 0 && params.Vars == nil {
			params.Vars = make(map[string]any, len(o.vars))
		}
		for k, v := range o.vars {
			params.Vars[k] = v
		}

		runModule(cmd, "job-submit", o.checkMode || params.CheckMode, params, &types.JobSubmitResult{}, jobsubmit.Run)
	},
}
