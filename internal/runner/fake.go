package runner

import (
	"context"
	"io"
	"strings"
)

// Call is one invocation recorded by Fake.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// Line renders the call the way it would appear on a shell command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Fake is a scripted Runner for tests. Handler decides the response for each
// call; a nil Handler answers rc=0 with no output.
type Fake struct {
	Calls   []Call
	Handler func(call Call) (*Response, error)
}

func (f *Fake) Run(ctx context.Context, stdin io.Reader, name string, args ...string) (*Response, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	if stdin != nil {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		call.Stdin = string(b)
	}
	f.Calls = append(f.Calls, call)

	if f.Handler == nil {
		return &Response{}, nil
	}
	return f.Handler(call)
}

// Lines returns every recorded call rendered with Call.Line.
func (f *Fake) Lines() []string {
	out := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		out = append(out, c.Line())
	}
	return out
}
