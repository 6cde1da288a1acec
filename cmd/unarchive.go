package cmd

import (
	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/unarchive"
	"github.com/graceinfra/zoscore/types"
	"github.com/spf13/cobra"
)

var unarchiveOpts struct {
	moduleFlags

	src            string
	dest           string
	format         string
	xmitLogDataSet string
	include        []string
	exclude        []string
	list           bool
	force          bool
	tmpHLQ         string
}

func init() {
	rootCmd.AddCommand(unarchiveCmd)

	f := unarchiveCmd.Flags()
	unarchiveOpts.register(unarchiveCmd)
	f.StringVar(&unarchiveOpts.src, "src", "", "Archive file or data set to unpack")
	f.StringVar(&unarchiveOpts.dest, "dest", "", "Directory or data set to unpack into")
	f.StringVar(&unarchiveOpts.format, "format", "", "Archive format; detected from the file name when omitted")
	f.StringVar(&unarchiveOpts.xmitLogDataSet, "xmit-log-data-set", "", "Data set RECEIVE logs to")
	f.StringSliceVar(&unarchiveOpts.include, "include", nil, "Only unpack entries matching these patterns")
	f.StringSliceVar(&unarchiveOpts.exclude, "exclude", nil, "Skip entries matching these patterns")
	f.BoolVar(&unarchiveOpts.list, "list", false, "List the archive instead of unpacking it")
	f.BoolVar(&unarchiveOpts.force, "force", false, "Overwrite existing files or data sets")
	f.StringVar(&unarchiveOpts.tmpHLQ, "tmp-hlq", "", "High-level qualifier for temporary data sets")
}

var unarchiveCmd = &cobra.Command{
	Use:   "unarchive [args-file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Unpack an archive onto the file system or into a data set",
	Run: func(cmd *cobra.Command, args []string) {
		var params types.UnarchiveParams
		if err := unarchiveOpts.loadArgs(args, &params); err != nil {
			failEarly(&types.UnarchiveResult{}, err)
		}

		o := &unarchiveOpts
		override(cmd, "src", &params.Src, o.src)
		override(cmd, "dest", &params.Dest, o.dest)
		override(cmd, "format", &params.Format.Name, o.format)
		override(cmd, "xmit-log-data-set", &params.Format.XmitLogDataSet, o.xmitLogDataSet)
		override(cmd, "include", &params.Include, types.StringList(o.include))
		override(cmd, "exclude", &params.Exclude, types.StringList(o.exclude))
		override(cmd, "list", &params.List, o.list)
		override(cmd, "force", &params.Force, o.force)
		override(cmd, "tmp-hlq", &params.TmpHLQ, o.tmpHLQ)

		registry := GetDependencies().UnarchiveRegistry
		run := func(ctx *context.ExecutionContext, p types.UnarchiveParams) (*types.UnarchiveResult, error) {
			return unarchive.Run(ctx, registry, p)
		}
		runModule(cmd, "unarchive", o.checkMode || params.CheckMode, params, &types.UnarchiveResult{}, run)
	},
}
