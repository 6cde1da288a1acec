package log

import (
	"bytes"
	"testing"

	"github.com/graceinfra/zoscore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(style types.OutputStyle) (*ModuleLogger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := NewLogger(style)
	l.Spinner = nil
	l.Out = &out
	l.Err = &errOut
	return l, &out, &errOut
}

func TestOutputStyles(t *testing.T) {
	tests := []struct {
		name       string
		style      types.OutputStyle
		wantOut    string
		wantErrOut string
	}{
		{
			name:       "Human prints info and errors",
			style:      types.StyleHuman,
			wantOut:    "archived 2 files\n",
			wantErrOut: "Error: boom\n",
		},
		{
			name:       "Verbose adds detail",
			style:      types.StyleHumanVerbose,
			wantOut:    "archived 2 files\ndetail\n",
			wantErrOut: "Error: boom\n",
		},
		{
			name:    "Machine style emits only JSON",
			style:   types.StyleMachineJSON,
			wantOut: "{\n  \"changed\": true\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, out, errOut := newTestLogger(tt.style)
			l.Info("archived %d files", 2)
			l.Verbose("detail")
			l.Error("boom")
			require.NoError(t, l.Json(map[string]bool{"changed": true}))

			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErrOut, errOut.String())
		})
	}
}

func TestSpinnerIsNoopWithoutSpinner(t *testing.T) {
	l, _, _ := newTestLogger(types.StyleHuman)
	l.StartSpinner("working")
	l.UpdateSpinner("still working")
	l.StopSpinner()
}
