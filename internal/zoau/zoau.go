// Package zoau wraps the Z Open Automation Utilities command line tools that
// zoscore delegates data set work to.
package zoau

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTools are the command names used when zoscore.yml does not override
// them.
var DefaultTools = types.ToolNames{
	Dls:        "dls",
	Dtouch:     "dtouch",
	Drm:        "drm",
	Dcat:       "dcat",
	Mvscmd:     "mvscmd",
	Mvscmdauth: "mvscmdauth",
	Tsocmd:     "tsocmd",
	Zowe:       "zowe",
}

// MergeTools fills empty entries of t with DefaultTools.
func MergeTools(t types.ToolNames) types.ToolNames {
	pick := func(v, d string) string {
		if v != "" {
			return v
		}
		return d
	}
	return types.ToolNames{
		Dls:        pick(t.Dls, DefaultTools.Dls),
		Dtouch:     pick(t.Dtouch, DefaultTools.Dtouch),
		Drm:        pick(t.Drm, DefaultTools.Drm),
		Dcat:       pick(t.Dcat, DefaultTools.Dcat),
		Mvscmd:     pick(t.Mvscmd, DefaultTools.Mvscmd),
		Mvscmdauth: pick(t.Mvscmdauth, DefaultTools.Mvscmdauth),
		Tsocmd:     pick(t.Tsocmd, DefaultTools.Tsocmd),
		Zowe:       pick(t.Zowe, DefaultTools.Zowe),
	}
}

type Client struct {
	runner runner.Runner
	tools  types.ToolNames
	logger zerolog.Logger
}

func NewClient(r runner.Runner, tools types.ToolNames) *Client {
	return &Client{
		runner: r,
		tools:  MergeTools(tools),
		logger: log.With().Str("component", "zoau").Logger(),
	}
}

// WithRunner returns a copy of c that runs tools through r.
func (c *Client) WithRunner(r runner.Runner) *Client {
	cp := *c
	cp.runner = r
	return &cp
}

// AllocOptions describe a new data set for dtouch.
type AllocOptions struct {
	Type         string // seq, pds, pdse
	RecordFormat string // FB, VB, U ...
	RecordLength int
}

func (c *Client) run(ctx context.Context, stdin io.Reader, name string, args ...string) (*runner.Response, error) {
	res, err := c.runner.Run(ctx, stdin, name, args...)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("tool", name).Strs("args", args).Int("rc", res.RC).Msg("Host tool finished")
	return res, nil
}

// Exists reports whether a data set is cataloged.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	res, err := c.run(ctx, nil, c.tools.Dls, name)
	if err != nil {
		return false, err
	}
	return res.RC == 0 && strings.TrimSpace(res.Stdout) != "", nil
}

// List expands a data set pattern such as USER.*.DATA. A pattern with no
// matches yields an empty list.
func (c *Client) List(ctx context.Context, pattern string) ([]string, error) {
	res, err := c.run(ctx, nil, c.tools.Dls, pattern)
	if err != nil {
		return nil, err
	}
	if res.RC != 0 {
		return nil, nil
	}
	return splitLines(res.Stdout), nil
}

func (c *Client) Allocate(ctx context.Context, name string, opts AllocOptions) error {
	args := []string{}
	if opts.Type != "" {
		args = append(args, "-t"+strings.ToLower(opts.Type))
	}
	if opts.RecordFormat != "" {
		args = append(args, "-r"+strings.ToUpper(opts.RecordFormat))
	}
	if opts.RecordLength > 0 {
		args = append(args, "-l"+strconv.Itoa(opts.RecordLength))
	}
	args = append(args, name)

	res, err := c.run(ctx, nil, c.tools.Dtouch, args...)
	if err != nil {
		return err
	}
	if err := runner.Check(res, c.tools.Dtouch, args...); err != nil {
		return fmt.Errorf("failed to allocate %s: %w", name, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, name string) error {
	res, err := c.run(ctx, nil, c.tools.Drm, "-F", name)
	if err != nil {
		return err
	}
	if err := runner.Check(res, c.tools.Drm, "-F", name); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// Read returns the records of a sequential data set or member.
func (c *Client) Read(ctx context.Context, name string) (string, error) {
	res, err := c.run(ctx, nil, c.tools.Dcat, name)
	if err != nil {
		return "", err
	}
	if err := runner.Check(res, c.tools.Dcat, name); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return res.Stdout, nil
}

// MVSCmd runs a program through mvscmd, or mvscmdauth when auth is set. The
// response is returned as-is so callers can apply their own rc limits.
func (c *Client) MVSCmd(ctx context.Context, auth bool, args ...string) (*runner.Response, error) {
	return c.run(ctx, nil, c.ProgramTool(auth), args...)
}

func (c *Client) ProgramTool(auth bool) string {
	if auth {
		return c.tools.Mvscmdauth
	}
	return c.tools.Mvscmd
}

// TSO issues a TSO command. stdin answers any prompts the command raises.
func (c *Client) TSO(ctx context.Context, command string, stdin io.Reader) (*runner.Response, error) {
	res, err := c.run(ctx, stdin, c.tools.Tsocmd, command)
	if err != nil {
		return nil, err
	}
	if err := runner.Check(res, c.tools.Tsocmd, command); err != nil {
		return res, err
	}
	return res, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
