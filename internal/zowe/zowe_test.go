package zowe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rfj(t *testing.T, v types.ZoweRfj) *runner.Response {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return &runner.Response{Stdout: string(b)}
}

func strPtr(s string) *string { return &s }

func TestSubmit(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{location: types.LocationDataSet, want: "zowe zos-jobs submit data-set USER.JCL(HELLO) --rfj --zosmf-profile dev"},
		{location: types.LocationUSS, want: "zowe zos-jobs submit uss-file USER.JCL(HELLO) --rfj --zosmf-profile dev"},
		{location: types.LocationLocal, want: "zowe zos-jobs submit local-file USER.JCL(HELLO) --rfj --zosmf-profile dev"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			fake := &runner.Fake{Handler: func(call runner.Call) (*runner.Response, error) {
				return rfj(t, types.ZoweRfj{Success: true, Data: &types.ZoweRfjData{JobID: "JOB00001", JobName: "HELLO", Status: "INPUT"}}), nil
			}}
			out, err := NewClient(fake, "", "dev").Submit(context.Background(), tt.location, "USER.JCL(HELLO)")
			require.NoError(t, err)
			assert.Equal(t, "JOB00001", out.GetJobID())
			assert.Equal(t, []string{tt.want}, fake.Lines())
		})
	}
}

func TestSubmitFailure(t *testing.T) {
	fake := &runner.Fake{Handler: func(call runner.Call) (*runner.Response, error) {
		res := rfj(t, types.ZoweRfj{Success: false, Error: &types.ZoweRfjError{Msg: "data set not found"}})
		res.RC = 1
		return res, nil
	}}
	_, err := NewClient(fake, "", "").Submit(context.Background(), types.LocationDataSet, "USER.NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data set not found")

	// Unparseable output with a failing rc keeps the tool's stderr
	fake.Handler = func(call runner.Call) (*runner.Response, error) {
		return &runner.Response{RC: 127, Stderr: "zowe: command not found"}, nil
	}
	_, err = NewClient(fake, "", "").Submit(context.Background(), types.LocationDataSet, "USER.JCL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zowe: command not found")
}

func TestWaitForJob(t *testing.T) {
	statuses := []*types.ZoweRfjData{
		{JobID: "JOB00001", Status: "INPUT"},
		{JobID: "JOB00001", Status: "ACTIVE"},
		{JobID: "JOB00001", Status: "OUTPUT", RetCode: strPtr("CC 0000")},
	}
	calls := 0
	fake := &runner.Fake{Handler: func(call runner.Call) (*runner.Response, error) {
		data := statuses[min(calls, len(statuses)-1)]
		calls++
		return rfj(t, types.ZoweRfj{Success: true, Data: data}), nil
	}}

	c := NewClient(fake, "", "")
	c.PollInterval = time.Millisecond

	var seen []string
	out, err := c.WaitForJob(context.Background(), "JOB00001", time.Second, func(s string) { seen = append(seen, s) })
	require.NoError(t, err)
	assert.Equal(t, "OUTPUT", out.GetStatus())
	assert.Equal(t, []string{"INPUT", "ACTIVE", "OUTPUT"}, seen)
}

func TestWaitForJobTimeout(t *testing.T) {
	fake := &runner.Fake{Handler: func(call runner.Call) (*runner.Response, error) {
		return rfj(t, types.ZoweRfj{Success: true, Data: &types.ZoweRfjData{JobID: "JOB00001", Status: "ACTIVE"}}), nil
	}}

	c := NewClient(fake, "", "")
	c.PollInterval = 5 * time.Millisecond

	_, err := c.WaitForJob(context.Background(), "JOB00001", 30*time.Millisecond, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not finish within")
	assert.Contains(t, err.Error(), "last status ACTIVE")
}

func TestListProfiles(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".zowe"), 0755))
	cfg := `{"profiles": {"prod": {"type": "zosmf"}, "dev": {"type": "zosmf"}, "ssh": {"type": "ssh"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(home, ".zowe", "zowe.config.json"), []byte(cfg), 0644))

	names, err := ListProfiles(home)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, names)

	_, err = ListProfiles(t.TempDir())
	assert.Error(t, err)
}
