package archive

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/paths"
	"github.com/graceinfra/zoscore/internal/resolver"
	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/internal/utils"
	"github.com/graceinfra/zoscore/internal/zoau"
	"github.com/graceinfra/zoscore/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// dumpDD is the DD the DFSMSdss dump of several sources is written to.
const dumpDD = "archive"

// mvsArchive packs data sets with AMATERSE (terse) or TSO TRANSMIT (xmit).
// Several sources are first combined into one temporary DFSMSdss dump.
type mvsArchive struct {
	ctx    *context.ExecutionContext
	zoau   *zoau.Client
	params types.ArchiveParams
	logger zerolog.Logger
}

func runMVS(ctx *context.ExecutionContext, params types.ArchiveParams, res *types.ArchiveResult) (*types.ArchiveResult, error) {
	m := &mvsArchive{
		ctx:    ctx,
		zoau:   ctx.ZOAU,
		params: params,
		logger: log.With().Str("component", "archive").Str("format", params.Format).Logger(),
	}

	pack := strings.ToUpper(params.FormatOptions.TersePack)
	if params.Format == "terse" && pack != "PACK" && pack != "SPACK" {
		return res, fmt.Errorf("terse_pack must be PACK or SPACK, got %q", params.FormatOptions.TersePack)
	}

	excluder, err := NewExcluder(params.ExclusionPatterns)
	if err != nil {
		return res, err
	}

	expanded, err := m.expand(params.Path)
	if err != nil {
		return res, err
	}
	excluded, err := m.expand(params.ExcludePath)
	if err != nil {
		return res, err
	}
	res.ExpandedPaths = nonNil(expanded)
	res.ExpandedExcludePaths = nonNil(excluded)

	var names []string
	for _, n := range Resolve(expanded, excluded) {
		if !excluder.Match(n) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return res, errors.New("Error, no source paths were found")
	}

	var invalid []string
	for _, n := range names {
		if err := utils.ValidateDataSetName(n); err != nil {
			invalid = append(invalid, fmt.Sprintf("%s: %v", n, err))
		}
	}
	if len(invalid) > 0 {
		return res, errors.New("invalid source data set names:\n- " + strings.Join(invalid, "\n- "))
	}

	dest := strings.ToUpper(params.Dest)
	if dest == "" {
		return res, fmt.Errorf("dest is required for %s archives", params.Format)
	}
	if err := utils.ValidateDataSetName(dest); err != nil {
		return res, fmt.Errorf("invalid dest %q: %w", dest, err)
	}
	res.Dest = dest

	for _, n := range names {
		ok, err := m.zoau.Exists(ctx.Ctx, n)
		if err != nil {
			return res, err
		}
		if ok {
			res.Targets = append(res.Targets, n)
		} else {
			res.Missing = append(res.Missing, n)
		}
	}

	destExists, err := m.zoau.Exists(ctx.Ctx, dest)
	if err != nil {
		return res, err
	}

	if len(res.Targets) == 0 {
		if destExists {
			res.DestState = types.StateArchived
		}
		return res, nil
	}

	res.DestState = types.StateArchived
	if len(res.Missing) > 0 {
		res.DestState = types.StateIncomplete
	}

	if ctx.CheckMode {
		return res, nil
	}

	if destExists {
		if !params.ReplaceDest {
			return res, fmt.Errorf("%s already exists", dest)
		}
		m.logger.Info().Str("dest", dest).Msg("Replacing existing archive")
		if err := m.zoau.Delete(ctx.Ctx, dest); err != nil {
			return res, err
		}
	}

	source := res.Targets[0]
	if len(res.Targets) > 1 {
		hlq := resolver.ResolveTmpHLQ(params.TmpHLQ, ctx.Config)
		tmp, err := paths.TempDataSetName(hlq, ctx.InvocationId.String()+"/dump/"+dest)
		if err != nil {
			return res, err
		}
		defer func() {
			if err := m.zoau.Delete(ctx.Ctx, tmp); err != nil {
				m.logger.Warn().Err(err).Str("dsn", tmp).Msg("Failed to delete temporary dump data set")
			}
		}()

		ctx.Logger.StartSpinner(fmt.Sprintf("Dumping %d data sets into %s ...", len(res.Targets), tmp))
		err = m.dump(res.Targets, tmp)
		ctx.Logger.StopSpinner()
		if err != nil {
			return res, err
		}
		source = tmp
	}

	ctx.Logger.StartSpinner(fmt.Sprintf("Writing %s archive %s ...", params.Format, dest))
	if params.Format == "terse" {
		err = m.terse(source, dest, pack)
	} else {
		err = m.transmit(source, dest)
	}
	ctx.Logger.StopSpinner()
	if err != nil {
		m.discardPartial(dest)
		return res, err
	}

	res.Archived = append([]string{}, res.Targets...)
	res.Changed = true

	if params.Remove {
		var failed []string
		for _, t := range res.Targets {
			if err := m.zoau.Delete(ctx.Ctx, t); err != nil {
				m.logger.Error().Err(err).Str("dsn", t).Msg("Failed to remove archived data set")
				failed = append(failed, t)
			}
		}
		if len(failed) > 0 {
			return res, fmt.Errorf("Error deleting some source files: %s", strings.Join(failed, ", "))
		}
	}

	if params.List {
		res.ArchiveContents = append([]string{}, res.Targets...)
	}

	m.logger.Info().Strs("archived", res.Archived).Msgf("Wrote %s", dest)
	return res, nil
}

// discardPartial deletes a dest left behind by a failed terse or transmit.
// dest did not exist when writing started, so whatever is there now was
// allocated by this run.
func (m *mvsArchive) discardPartial(dest string) {
	exists, err := m.zoau.Exists(m.ctx.Ctx, dest)
	if err != nil || !exists {
		return
	}
	if err := m.zoau.Delete(m.ctx.Ctx, dest); err != nil {
		m.logger.Warn().Err(err).Str("dsn", dest).Msg("Failed to delete partially written archive")
	}
}

// expand resolves data set patterns with dls. Names without wildcards are
// taken literally so missing ones can be reported.
func (m *mvsArchive) expand(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		p = strings.ToUpper(strings.TrimSpace(p))
		if !strings.ContainsAny(p, "*?") {
			out = append(out, p)
			continue
		}
		matches, err := m.zoau.List(m.ctx.Ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}

// dump writes a DFSMSdss logical dump of sources into tmp.
func (m *mvsArchive) dump(sources []string, tmp string) error {
	if err := m.zoau.Allocate(m.ctx.Ctx, tmp, zoau.AllocOptions{Type: "seq", RecordFormat: "U"}); err != nil {
		return err
	}

	sysin, err := os.CreateTemp("", "zoscore-dump-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create DFSMSdss control file: %w", err)
	}
	defer os.Remove(sysin.Name())

	if _, err := sysin.WriteString(dumpControlStatements(sources)); err != nil {
		sysin.Close()
		return fmt.Errorf("failed to write DFSMSdss control file: %w", err)
	}
	if err := sysin.Close(); err != nil {
		return fmt.Errorf("failed to write DFSMSdss control file: %w", err)
	}

	args := []string{
		"--pgm=ADRDSSU",
		"--" + dumpDD + "=" + tmp,
		"--sysin=" + sysin.Name(),
		"--sysprint=*",
	}
	res, err := m.zoau.MVSCmd(m.ctx.Ctx, true, args...)
	if err != nil {
		return err
	}
	if err := runner.Check(res, m.zoau.ProgramTool(true), args...); err != nil {
		return fmt.Errorf("failed to dump data sets into %s: %w", tmp, err)
	}
	return nil
}

func dumpControlStatements(sources []string) string {
	var b strings.Builder
	b.WriteString(" DUMP DATASET(INCLUDE( -\n")
	for i, s := range sources {
		sep := ", -"
		if i == len(sources)-1 {
			sep = " -"
		}
		fmt.Fprintf(&b, "    %s%s\n", s, sep)
	}
	fmt.Fprintf(&b, "    )) OUTDD(%s) TOLERATE(ENQFAILURE)\n", strings.ToUpper(dumpDD))
	return b.String()
}

func (m *mvsArchive) terse(source, dest, pack string) error {
	if err := m.zoau.Allocate(m.ctx.Ctx, dest, zoau.AllocOptions{Type: "seq", RecordFormat: "FB", RecordLength: 1024}); err != nil {
		return err
	}

	args := []string{
		"--pgm=AMATERSE",
		"--args=" + pack,
		"--sysut1=" + source,
		"--sysut2=" + dest,
		"--sysprint=*",
	}
	res, err := m.zoau.MVSCmd(m.ctx.Ctx, true, args...)
	if err != nil {
		return err
	}
	if err := runner.Check(res, m.zoau.ProgramTool(true), args...); err != nil {
		return fmt.Errorf("failed to terse %s into %s: %w", source, dest, err)
	}
	return nil
}

func (m *mvsArchive) transmit(source, dest string) error {
	cmd := fmt.Sprintf("TRANSMIT A.B DSNAME('%s') OUTDSNAME('%s')", source, dest)
	if logDS := m.params.FormatOptions.XmitLogDataSet; logDS != "" {
		cmd += fmt.Sprintf(" LOGDATASET('%s')", strings.ToUpper(logDS))
	}
	if _, err := m.zoau.TSO(m.ctx.Ctx, cmd, nil); err != nil {
		return fmt.Errorf("failed to transmit %s into %s: %w", source, dest, err)
	}
	return nil
}
