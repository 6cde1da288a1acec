package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/graceinfra/zoscore/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverride(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var dest string
	var remove bool
	cmd.Flags().StringVar(&dest, "dest", "", "")
	cmd.Flags().BoolVar(&remove, "remove", false, "")
	require.NoError(t, cmd.ParseFlags([]string{"--dest", "/tmp/out.tar"}))

	params := types.ArchiveParams{Dest: "/from/file.tar", Remove: true}
	override(cmd, "dest", &params.Dest, dest)
	override(cmd, "remove", &params.Remove, remove)

	assert.Equal(t, "/tmp/out.tar", params.Dest)
	assert.True(t, params.Remove, "unset flags keep the args file value")
}

func TestLoadArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "args.yml")
	require.NoError(t, os.WriteFile(path, []byte("src: /tmp/a.tar\nforce: true\n"), 0644))

	tests := []struct {
		name  string
		flags moduleFlags
		args  []string
	}{
		{name: "positional", args: []string{path}},
		{name: "flag", flags: moduleFlags{argsFile: path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params types.UnarchiveParams
			require.NoError(t, tt.flags.loadArgs(tt.args, &params))
			assert.Equal(t, "/tmp/a.tar", params.Src)
			assert.True(t, params.Force)
		})
	}

	var params types.UnarchiveParams
	assert.NoError(t, (&moduleFlags{}).loadArgs(nil, &params), "no args file is fine")
}

func TestOutputStyle(t *testing.T) {
	defer func(h, v bool) { Human, Verbose = h, v }(Human, Verbose)

	tests := []struct {
		human, verbose bool
		want           types.OutputStyle
	}{
		{false, false, types.StyleMachineJSON},
		{false, true, types.StyleMachineJSON},
		{true, false, types.StyleHuman},
		{true, true, types.StyleHumanVerbose},
	}
	for _, tt := range tests {
		Human, Verbose = tt.human, tt.verbose
		assert.Equal(t, tt.want, outputStyle())
	}
}
