// Package jobsubmit submits JCL from a data set, a USS file or a local file
// and waits for the job to finish.
package jobsubmit

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/resolver"
	"github.com/graceinfra/zoscore/internal/templates"
	"github.com/graceinfra/zoscore/internal/utils"
	"github.com/graceinfra/zoscore/internal/zoau"
	"github.com/graceinfra/zoscore/internal/zowe"
	"github.com/graceinfra/zoscore/types"
	"github.com/rs/zerolog/log"
)

var ccRegex = regexp.MustCompile(`^CC\s+(\d+)$`)

// Run submits the job described by params through the Zowe CLI named in
// zoscore.yml.
func Run(ctx *context.ExecutionContext, params types.JobSubmitParams) (*types.JobSubmitResult, error) {
	client := zowe.NewClient(ctx.Runner, zoau.MergeTools(resolver.ResolveTools(ctx.Config)).Zowe, resolver.ResolveProfile(ctx.Config))
	return RunWith(ctx, client, params)
}

func RunWith(ctx *context.ExecutionContext, client *zowe.Client, params types.JobSubmitParams) (*types.JobSubmitResult, error) {
	params.Normalize()
	logger := log.With().Str("component", "jobsubmit").Str("location", params.Location).Logger()

	res := &types.JobSubmitResult{Jobs: []types.JobSummary{}}
	start := time.Now()
	defer func() { res.DurationMs = time.Since(start).Milliseconds() }()

	src, cleanup, err := prepareSource(params)
	if err != nil {
		return res, err
	}
	defer cleanup()

	if ctx.CheckMode {
		logger.Info().Str("src", src).Msg("Check mode: job not submitted")
		return res, nil
	}

	ctx.Logger.StartSpinner(fmt.Sprintf("Submitting %s ...", params.Src))
	submitted, err := client.Submit(ctx.Ctx, params.Location, src)
	ctx.Logger.StopSpinner()
	if err != nil {
		return res, err
	}
	res.Changed = true

	job := types.JobSummary{
		JobID:      submitted.Data.JobID,
		JobName:    submitted.Data.JobName,
		Owner:      submitted.Data.Owner,
		Class:      submitted.Data.Class,
		Status:     submitted.Data.Status,
		SubmitTime: time.Now().Format(time.RFC3339),
	}
	ctx.Logger.Info("✓ Job %s submitted with ID %s (status: %s)", job.JobName, job.JobID, job.Status)
	logger.Info().Str("job_id", job.JobID).Str("job_name", job.JobName).Msg("Job submitted")

	wait := resolver.ResolveWaitTime(params.WaitTimeS, ctx.Config)
	ctx.Logger.StartSpinner(fmt.Sprintf("Polling %s ...", job.JobID))
	final, waitErr := client.WaitForJob(ctx.Ctx, job.JobID, wait, func(status string) {
		ctx.Logger.UpdateSpinner(fmt.Sprintf("Polling %s... (status: %s)", job.JobID, status))
	})
	ctx.Logger.StopSpinner()

	if final != nil {
		job.Status = final.Data.Status
		job.RetCode = parseRetCode(final.Data.RetCode)
	} else {
		job.RetCode = parseRetCode(nil)
	}
	if waitErr != nil {
		res.Jobs = append(res.Jobs, job)
		return res, waitErr
	}
	job.FinishTime = time.Now().Format(time.RFC3339)

	if params.ReturnOutput {
		spool, err := client.SpoolContent(ctx.Ctx, job.JobID)
		if err != nil {
			logger.Warn().Err(err).Str("job_id", job.JobID).Msg("Failed to fetch spool output")
		} else {
			job.Spool = spool
		}
	}
	res.Jobs = append(res.Jobs, job)
	ctx.Logger.Info("✓ Job %s completed: %s", job.JobName, job.RetCode.Msg)

	maxRC := 0
	if params.MaxRC != nil {
		maxRC = *params.MaxRC
	}
	if job.RetCode.Code < 0 {
		return res, fmt.Errorf("job %s (%s) ended with %s", job.JobName, job.JobID, job.RetCode.Msg)
	}
	if job.RetCode.Code > maxRC {
		return res, fmt.Errorf("job %s (%s) ended with rc=%d, above max_rc=%d", job.JobName, job.JobID, job.RetCode.Code, maxRC)
	}
	return res, nil
}

// prepareSource validates src for its location and renders local templates.
// cleanup removes any rendered file.
func prepareSource(params types.JobSubmitParams) (string, func(), error) {
	noop := func() {}
	if params.Src == "" {
		return "", noop, errors.New("src is required")
	}

	switch params.Location {
	case types.LocationDataSet:
		src := strings.ToUpper(params.Src)
		if err := utils.ValidateDataSetName(src); err != nil {
			return "", noop, fmt.Errorf("invalid src %q: %w", params.Src, err)
		}
		return src, noop, nil

	case types.LocationUSS:
		if !strings.HasPrefix(params.Src, "/") {
			return "", noop, fmt.Errorf("src %q must be an absolute USS path", params.Src)
		}
		return params.Src, noop, nil

	case types.LocationLocal:
		if strings.HasSuffix(params.Src, "/") {
			return "", noop, errors.New("src must be a file")
		}
		info, err := os.Stat(params.Src)
		if err != nil {
			return "", noop, fmt.Errorf("could not find src=%s, %v", params.Src, err)
		}
		if info.IsDir() {
			return "", noop, errors.New("NOT SUPPORTING THE DIRECTORY.")
		}
		if !params.UseTemplate {
			return params.Src, noop, nil
		}

		r, err := templates.NewRenderer(params.Template)
		if err != nil {
			return "", noop, err
		}
		rendered, err := r.RenderToTemp(params.Src, params.Vars)
		if err != nil {
			return "", noop, err
		}
		return rendered, func() { os.Remove(rendered) }, nil

	default:
		return "", noop, fmt.Errorf("location must be one of %s, %s, %s, got %q", types.LocationDataSet, types.LocationUSS, types.LocationLocal, params.Location)
	}
}

// parseRetCode turns the JES return code text ("CC 0004", "ABEND S0C4",
// "JCL ERROR") into a code. Anything that is not a condition code is -1.
func parseRetCode(retcode *string) types.RetCode {
	if retcode == nil {
		return types.RetCode{Code: -1, Msg: "no return code"}
	}
	text := strings.TrimSpace(*retcode)
	if m := ccRegex.FindStringSubmatch(text); m != nil {
		code, _ := strconv.Atoi(m[1])
		return types.RetCode{Code: code, Msg: text}
	}
	return types.RetCode{Code: -1, Msg: text}
}
