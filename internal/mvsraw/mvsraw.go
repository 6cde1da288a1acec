// Package mvsraw runs an MVS program through mvscmd with DD statements
// built from declarative parameters.
package mvsraw

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/resolver"
	"github.com/graceinfra/zoscore/internal/utils"
	"github.com/graceinfra/zoscore/types"
	"github.com/rs/zerolog/log"
)

var dispositions = map[string]bool{"": true, "new": true, "shr": true, "mod": true, "old": true}

// Run executes params.ProgramName and collects the requested DD content.
func Run(ctx *context.ExecutionContext, params types.MVSRawParams) (*types.MVSRawResult, error) {
	params.Normalize()
	logger := log.With().Str("component", "mvsraw").Str("program", params.ProgramName).Logger()

	res := &types.MVSRawResult{
		RetCode: types.RetCode{Code: -1},
		DDNames: []types.DDResult{},
	}

	if err := Validate(params); err != nil {
		return res, err
	}

	b := &ddBuilder{ctx: ctx, tmpHLQ: resolver.ResolveTmpHLQ(params.TmpHLQ, ctx.Config), dryRun: ctx.CheckMode}
	defer b.cleanup()

	args := []string{"--pgm=" + strings.ToUpper(params.ProgramName)}
	if params.Parm != "" {
		args = append(args, "--args="+params.Parm)
	}
	if params.Verbose {
		args = append([]string{"-v"}, args...)
	}

	ddArgs, err := b.args(params.DDs)
	if err != nil {
		return res, err
	}
	args = append(args, ddArgs...)
	res.Command = append([]string{ctx.ZOAU.ProgramTool(params.Auth)}, args...)

	if ctx.CheckMode {
		res.RetCode = types.RetCode{Code: 0}
		return res, nil
	}

	ctx.Logger.StartSpinner(fmt.Sprintf("Running %s ...", strings.ToUpper(params.ProgramName)))
	out, err := ctx.ZOAU.MVSCmd(ctx.Ctx, params.Auth, args...)
	ctx.Logger.StopSpinner()
	if err != nil {
		return res, err
	}

	res.Changed = true
	res.RetCode = types.RetCode{Code: out.RC}
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr
	logger.Debug().Int("rc", out.RC).Msg("Program finished")

	for _, src := range b.sources {
		dd, err := readContent(ctx, src)
		if err != nil {
			return res, fmt.Errorf("failed to return content of %s: %w", src.ddName, err)
		}
		res.DDNames = append(res.DDNames, dd)
	}

	if out.RC > params.MaxRC {
		res.RetCode.Msg = fmt.Sprintf("rc %d exceeds max_rc %d", out.RC, params.MaxRC)
		return res, fmt.Errorf("%s ended with rc=%d, above max_rc=%d: %s", strings.ToUpper(params.ProgramName), out.RC, params.MaxRC, strings.TrimSpace(out.Stderr))
	}
	return res, nil
}

// Validate checks params before anything runs. Every problem is reported in
// one error prefixed with "ValueError: ".
func Validate(params types.MVSRawParams) error {
	var errs []string
	if params.ProgramName == "" {
		errs = append(errs, "program_name is required")
	}
	if params.MaxRC < 0 {
		errs = append(errs, "max_rc cannot be negative")
	}
	for i, dd := range params.DDs {
		errs = append(errs, validateDD(fmt.Sprintf("dds[%d]", i), dd, true)...)
	}

	if len(errs) > 0 {
		return errors.New("ValueError: " + strings.Join(errs, "; "))
	}
	return nil
}

func validateDD(where string, dd types.DDStatement, allowConcat bool) []string {
	var errs []string
	kinds := 0
	for _, set := range []bool{dd.DataSet != nil, dd.Unix != nil, dd.Input != nil, dd.Output != nil, dd.Dummy != nil, dd.Concat != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return []string{fmt.Sprintf("%s must hold exactly one DD type, found %d", where, kinds)}
	}

	checkName := func(name string) {
		if err := utils.ValidateDDName(name); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", where, err))
		}
	}
	checkContent := func(rc *types.ReturnContent) {
		if rc == nil {
			return
		}
		if rc.Type != "" && rc.Type != "text" && rc.Type != "base64" {
			errs = append(errs, fmt.Sprintf("%s: return_content type must be text or base64, got %q", where, rc.Type))
		}
		for _, enc := range []string{rc.SrcEncoding, rc.ResponseEncoding} {
			if enc == "" {
				continue
			}
			if _, err := lookupEncoding(enc); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", where, err))
			}
		}
	}

	switch {
	case dd.DataSet != nil:
		if allowConcat {
			checkName(dd.DataSet.DDName)
		}
		disp := strings.ToLower(dd.DataSet.Disposition)
		if !dispositions[disp] {
			errs = append(errs, fmt.Sprintf("%s: disposition must be one of new, shr, mod, old, got %q", where, dd.DataSet.Disposition))
		}
		if dd.DataSet.DataSetName == "" && disp != "new" {
			errs = append(errs, fmt.Sprintf("%s: data_set_name is required unless disposition is new", where))
		}
		if dd.DataSet.DataSetName != "" {
			if err := utils.ValidateDataSetName(strings.ToUpper(dd.DataSet.DataSetName)); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", where, err))
			}
		}
		checkContent(dd.DataSet.ReturnContent)
	case dd.Unix != nil:
		if allowConcat {
			checkName(dd.Unix.DDName)
		}
		if dd.Unix.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: path is required", where))
		}
		checkContent(dd.Unix.ReturnContent)
	case dd.Input != nil:
		if allowConcat {
			checkName(dd.Input.DDName)
		}
		checkContent(dd.Input.ReturnContent)
	case dd.Output != nil:
		checkName(dd.Output.DDName)
		checkContent(dd.Output.ReturnContent)
	case dd.Dummy != nil:
		checkName(dd.Dummy.DDName)
	case dd.Concat != nil:
		if !allowConcat {
			return []string{fmt.Sprintf("%s: concatenations cannot be nested", where)}
		}
		checkName(dd.Concat.DDName)
		if len(dd.Concat.DDs) == 0 {
			errs = append(errs, fmt.Sprintf("%s: dd_concat needs at least one dds entry", where))
		}
		for i, child := range dd.Concat.DDs {
			childWhere := fmt.Sprintf("%s.dds[%d]", where, i)
			if child.Output != nil || child.Dummy != nil {
				errs = append(errs, fmt.Sprintf("%s: only data sets, unix files and input can be concatenated", childWhere))
				continue
			}
			errs = append(errs, validateDD(childWhere, child, false)...)
		}
	}
	return errs
}

func readContent(ctx *context.ExecutionContext, src contentSource) (types.DDResult, error) {
	dd := types.DDResult{DDName: src.ddName, Name: src.name, Content: []string{}}

	var raw []byte
	if src.dataSet {
		// dcat already converts records to the local code page
		text, err := ctx.ZOAU.Read(ctx.Ctx, src.name)
		if err != nil {
			return dd, err
		}
		raw = []byte(text)
	} else {
		b, err := os.ReadFile(src.name)
		if err != nil {
			return dd, err
		}
		raw = b
	}

	var text string
	switch {
	case src.opts.Type == "base64":
		dd.Content = []string{base64.StdEncoding.EncodeToString(raw)}
		dd.ByteCount = len(raw)
		dd.RecordCount = 1
		return dd, nil
	case src.dataSet:
		text = string(raw)
	default:
		converted, err := convert(raw, src.opts.SrcEncoding, src.opts.ResponseEncoding)
		if err != nil {
			return dd, err
		}
		text = converted
	}

	text = strings.TrimSuffix(text, "\n")
	if text != "" {
		dd.Content = strings.Split(text, "\n")
	}
	dd.RecordCount = len(dd.Content)
	dd.ByteCount = len(text)
	return dd, nil
}
