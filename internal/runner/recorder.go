package runner

import (
	"context"
	"io"
	"strings"
)

// Recorder wraps a Runner and keeps the command line of every call, in
// order, for the invocation record.
type Recorder struct {
	Runner Runner
	lines  []string
}

func NewRecorder(r Runner) *Recorder {
	return &Recorder{Runner: r}
}

func (r *Recorder) Run(ctx context.Context, stdin io.Reader, name string, args ...string) (*Response, error) {
	r.lines = append(r.lines, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return r.Runner.Run(ctx, stdin, name, args...)
}

func (r *Recorder) Commands() []string {
	return append([]string(nil), r.lines...)
}
