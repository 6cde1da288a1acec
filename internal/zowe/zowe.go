// Package zowe drives the Zowe CLI to submit z/OS jobs and follow them to
// completion.
package zowe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is the pause between job status queries.
const DefaultPollInterval = 2 * time.Second

// Submit sources by job submission location.
var submitSources = map[string]string{
	types.LocationLocal:   "local-file",
	types.LocationDataSet: "data-set",
	types.LocationUSS:     "uss-file",
}

type Client struct {
	runner       runner.Runner
	tool         string
	profile      string
	PollInterval time.Duration
	logger       zerolog.Logger
}

// NewClient returns a client invoking tool (normally "zowe"). A non-empty
// profile is passed as --zosmf-profile on every call.
func NewClient(r runner.Runner, tool, profile string) *Client {
	if tool == "" {
		tool = "zowe"
	}
	return &Client{
		runner:       r,
		tool:         tool,
		profile:      profile,
		PollInterval: DefaultPollInterval,
		logger:       log.With().Str("component", "zowe").Logger(),
	}
}

// run invokes `zowe <args...> --rfj` and decodes the response envelope.
func (c *Client) run(ctx context.Context, args ...string) (*types.ZoweRfj, error) {
	args = append(args, "--rfj")
	if c.profile != "" {
		args = append(args, "--zosmf-profile", c.profile)
	}

	c.logger.Debug().Strs("args", args).Msg("Running zowe")
	res, err := c.runner.Run(ctx, nil, c.tool, args...)
	if err != nil {
		return nil, err
	}

	var out types.ZoweRfj
	if err := json.Unmarshal([]byte(res.Stdout), &out); err != nil {
		if res.RC != 0 {
			return nil, &runner.ToolError{Tool: c.tool, Args: args, RC: res.RC, Stdout: res.Stdout, Stderr: res.Stderr}
		}
		return nil, fmt.Errorf("unexpected response from %s %s: %w", c.tool, strings.Join(args, " "), err)
	}
	if res.RC != 0 || !out.Success {
		return &out, fmt.Errorf("%s %s failed: %s", c.tool, strings.Join(args, " "), out.GetError())
	}
	return &out, nil
}

// Submit submits the JCL at src. location selects how src is read.
func (c *Client) Submit(ctx context.Context, location, src string) (*types.ZoweRfj, error) {
	source, ok := submitSources[location]
	if !ok {
		return nil, fmt.Errorf("unsupported location %q", location)
	}
	out, err := c.run(ctx, "zos-jobs", "submit", source, src)
	if err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}
	if out.Data == nil {
		return nil, errors.New("job submission returned no job")
	}
	return out, nil
}

func (c *Client) JobStatus(ctx context.Context, jobID string) (*types.ZoweRfj, error) {
	out, err := c.run(ctx, "zos-jobs", "view", "job-status-by-jobid", jobID)
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("no status returned for job %s", jobID)
	}
	return out, nil
}

// WaitForJob polls the job status until it reaches OUTPUT or carries a
// return code. The wait is bounded by timeout; onStatus, when set, sees every
// intermediate status.
func (c *Client) WaitForJob(ctx context.Context, jobID string, timeout time.Duration, onStatus func(status string)) (*types.ZoweRfj, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	last := ""
	for {
		status, err := c.JobStatus(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("job %s did not finish within %s (last status %s)", jobID, timeout, last)
			}
			return nil, err
		}

		last = status.Data.Status
		if onStatus != nil {
			onStatus(last)
		}
		if last == "OUTPUT" || status.Data.RetCode != nil {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return status, fmt.Errorf("job %s did not finish within %s (last status %s)", jobID, timeout, last)
		case <-ticker.C:
		}
	}
}

// SpoolContent returns every spool file of a job concatenated.
func (c *Client) SpoolContent(ctx context.Context, jobID string) (string, error) {
	out, err := c.run(ctx, "zos-jobs", "view", "all-spool-content", "--jobid", jobID)
	if err != nil {
		return "", err
	}
	return out.Stdout, nil
}

// ListProfiles returns the profile names in ~/.zowe/zowe.config.json.
func ListProfiles(home string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(home, ".zowe", "zowe.config.json"))
	if err != nil {
		return nil, err
	}

	var zoweConfig types.ZoweConfig
	if err := json.Unmarshal(data, &zoweConfig); err != nil {
		return nil, fmt.Errorf("failed to parse zowe config: %w", err)
	}

	names := make([]string, 0, len(zoweConfig.Profiles))
	for name, p := range zoweConfig.Profiles {
		if p.Type == "zosmf" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
