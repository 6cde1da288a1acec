package cmd

import (
	"github.com/graceinfra/zoscore/internal/archive"
	"github.com/graceinfra/zoscore/types"
	"github.com/spf13/cobra"
)

var archiveOpts struct {
	moduleFlags

	path              []string
	dest              string
	format            string
	excludePath       []string
	exclusionPatterns []string
	forceArchive      bool
	remove            bool
	replaceDest       bool
	list              bool
	tmpHLQ            string
	mode              string
	owner             string
	group             string
	tersePack         string
	xmitLogDataSet    string
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	f := archiveCmd.Flags()
	archiveOpts.register(archiveCmd)
	f.StringSliceVar(&archiveOpts.path, "path", nil, "Files, directories, data sets or glob patterns to archive")
	f.StringVar(&archiveOpts.dest, "dest", "", "Archive to write")
	f.StringVar(&archiveOpts.format, "format", "", "One of bz2, gz, tar, zip, terse, xmit (default gz)")
	f.StringSliceVar(&archiveOpts.excludePath, "exclude-path", nil, "Paths or patterns removed from the source set")
	f.StringSliceVar(&archiveOpts.exclusionPatterns, "exclusion-patterns", nil, "Entry patterns skipped while walking directories")
	f.BoolVar(&archiveOpts.forceArchive, "force-archive", false, "Archive a single file instead of only compressing it")
	f.BoolVar(&archiveOpts.remove, "remove", false, "Remove sources after they were archived")
	f.BoolVar(&archiveOpts.replaceDest, "replace-dest", false, "Replace an existing MVS dest; Unix archives are always rewritten")
	f.BoolVar(&archiveOpts.list, "list", false, "Return the archive contents")
	f.StringVar(&archiveOpts.tmpHLQ, "tmp-hlq", "", "High-level qualifier for temporary data sets")
	f.StringVar(&archiveOpts.mode, "mode", "", "Octal permissions of dest")
	f.StringVar(&archiveOpts.owner, "owner", "", "Owner of dest")
	f.StringVar(&archiveOpts.group, "group", "", "Group of dest")
	f.StringVar(&archiveOpts.tersePack, "terse-pack", "", "AMATERSE mode, PACK or SPACK")
	f.StringVar(&archiveOpts.xmitLogDataSet, "xmit-log-data-set", "", "Data set TRANSMIT logs to")
}

var archiveCmd = &cobra.Command{
	Use:   "archive [args-file]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Create an archive from files or data sets",
	Long: `Archive packs Unix files into tar, zip, gzip or bzip2 archives and MVS data
sets into AMATERSE (terse) or TSO TRANSMIT (xmit) archives.

Sources are literal paths or glob patterns. Entries matching an exclusion
pattern never enter the archive. A Unix archive is written from scratch on
every run, and changed is only reported when its entries or their content
differ from the archive it replaces. An existing MVS dest is only replaced
with --replace-dest.`,
	Run: func(cmd *cobra.Command, args []string) {
		var params types.ArchiveParams
		if err := archiveOpts.loadArgs(args, &params); err != nil {
			failEarly(&types.ArchiveResult{}, err)
		}

		o := &archiveOpts
		override(cmd, "path", &params.Path, types.StringList(o.path))
		override(cmd, "dest", &params.Dest, o.dest)
		override(cmd, "format", &params.Format, o.format)
		override(cmd, "exclude-path", &params.ExcludePath, types.StringList(o.excludePath))
		override(cmd, "exclusion-patterns", &params.ExclusionPatterns, types.StringList(o.exclusionPatterns))
		override(cmd, "force-archive", &params.ForceArchive, o.forceArchive)
		override(cmd, "remove", &params.Remove, o.remove)
		override(cmd, "replace-dest", &params.ReplaceDest, o.replaceDest)
		override(cmd, "list", &params.List, o.list)
		override(cmd, "tmp-hlq", &params.TmpHLQ, o.tmpHLQ)
		override(cmd, "mode", &params.Mode, o.mode)
		override(cmd, "owner", &params.Owner, o.owner)
		override(cmd, "group", &params.Group, o.group)
		override(cmd, "terse-pack", &params.FormatOptions.TersePack, o.tersePack)
		override(cmd, "xmit-log-data-set", &params.FormatOptions.XmitLogDataSet, o.xmitLogDataSet)

		runModule(cmd, "archive", o.checkMode || params.CheckMode, params, &types.ArchiveResult{}, archive.Run)
	},
}
