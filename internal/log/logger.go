package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/graceinfra/zoscore/types"
)

// ModuleLogger is the user-facing output of a module run. Human styles print
// progress text and drive a spinner on stderr; the machine style stays silent
// except for the final JSON document.
type ModuleLogger struct {
	OutputStyle types.OutputStyle
	Spinner     *spinner.Spinner

	Out io.Writer
	Err io.Writer
}

func NewLogger(style types.OutputStyle) *ModuleLogger {
	return &ModuleLogger{
		OutputStyle: style,
		Spinner: spinner.New(
			spinner.CharSets[11], // ⣾ style, can be swapped at the call site
			100*time.Millisecond,
			spinner.WithHiddenCursor(true),
			spinner.WithWriter(os.Stderr)),
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

func (l *ModuleLogger) isHuman() bool {
	return l.OutputStyle == types.StyleHuman || l.OutputStyle == types.StyleHumanVerbose
}

func (l *ModuleLogger) Info(msg string, args ...any) {
	if l.isHuman() {
		fmt.Fprintf(l.Out, msg+"\n", args...)
	}
}

func (l *ModuleLogger) Verbose(msg string, args ...any) {
	if l.OutputStyle == types.StyleHumanVerbose {
		fmt.Fprintf(l.Out, msg+"\n", args...)
	}
}

func (l *ModuleLogger) Error(msg string, args ...any) {
	if l.isHuman() {
		fmt.Fprintf(l.Err, "Error: "+msg+"\n", args...)
	}
}

// Json writes data as indented JSON. Only the machine style emits anything.
func (l *ModuleLogger) Json(data any) error {
	if l.OutputStyle != types.StyleMachineJSON {
		return nil
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(l.Out, string(encoded))
	return err
}

// StartSpinner starts the logger spinner. you can pass optionalCharset
// to override the default spinner. It is a variadic parameter but only
// the first argument will be used.
func (l *ModuleLogger) StartSpinner(text string, optionalCharset ...[]string) {
	if l.isHuman() && l.Spinner != nil {
		l.Spinner.Suffix = " " + text
		if len(optionalCharset) > 0 {
			l.Spinner.UpdateCharSet(optionalCharset[0])
		}
		l.Spinner.Start()
	}
}

func (l *ModuleLogger) UpdateSpinner(text string) {
	if l.isHuman() && l.Spinner != nil {
		l.Spinner.Lock()
		l.Spinner.Suffix = " " + text
		l.Spinner.Unlock()
	}
}

func (l *ModuleLogger) StopSpinner() {
	if l.isHuman() && l.Spinner != nil {
		l.Spinner.Stop()
	}
}
