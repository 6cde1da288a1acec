package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Response carries everything a host tool produced. RC is the process exit
// status; a non-zero RC is not an error at this layer.
type Response struct {
	RC     int
	Stdout string
	Stderr string
}

// Runner starts external host tools. Implementations must honour ctx
// cancellation.
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) (*Response, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct {
	// Env, when set, is appended to the inherited environment.
	Env []string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) (*Response, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	log.Debug().Str("component", "runner").Str("tool", name).Strs("args", args).Msg("Running host tool")

	err := cmd.Run()
	res := &Response{Stdout: outBuf.String(), Stderr: errBuf.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		res.RC = exitErr.ExitCode()
		return res, nil
	case ctx.Err() != nil:
		return res, fmt.Errorf("%s %s interrupted: %w", name, strings.Join(args, " "), ctx.Err())
	default:
		return res, fmt.Errorf("failed to start %s: %w", name, err)
	}
}

// ToolError reports a host tool that ran but finished with a non-zero return
// code.
type ToolError struct {
	Tool   string
	Args   []string
	RC     int
	Stdout string
	Stderr string
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s failed with rc=%d", e.Tool, strings.Join(e.Args, " "), e.RC)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	} else if s := strings.TrimSpace(e.Stdout); s != "" {
		msg += ": " + s
	}
	return msg
}

// Check converts a non-zero response into a *ToolError.
func Check(res *Response, name string, args ...string) error {
	if res.RC == 0 {
		return nil
	}
	return &ToolError{Tool: name, Args: args, RC: res.RC, Stdout: res.Stdout, Stderr: res.Stderr}
}
