package resolver

import (
	"testing"
	"time"

	"github.com/graceinfra/zoscore/types"
	"github.com/stretchr/testify/assert"
)

func TestResolveTmpHLQ(t *testing.T) {
	t.Setenv("HLQ", "ENVHLQ")

	cfg := &types.ZoscoreConfig{}
	cfg.Config.TmpHLQ = "CFGHLQ"

	tests := []struct {
		name  string
		param string
		cfg   *types.ZoscoreConfig
		want  string
	}{
		{name: "Task parameter wins", param: "TASK", cfg: cfg, want: "TASK"},
		{name: "Config when no parameter", cfg: cfg, want: "CFGHLQ"},
		{name: "Environment when no config", cfg: nil, want: "ENVHLQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTmpHLQ(tt.param, tt.cfg))
		})
	}
}

func TestResolveWaitTime(t *testing.T) {
	cfg := &types.ZoscoreConfig{}
	assert.Equal(t, 10*time.Second, ResolveWaitTime(0, nil))
	assert.Equal(t, 10*time.Second, ResolveWaitTime(0, cfg))

	cfg.Config.WaitTimeS = 30
	assert.Equal(t, 30*time.Second, ResolveWaitTime(0, cfg))
	assert.Equal(t, 5*time.Second, ResolveWaitTime(5, cfg))
}

func TestResolveRecordDir(t *testing.T) {
	assert.Equal(t, DefaultRecordDir, ResolveRecordDir(nil))

	cfg := &types.ZoscoreConfig{}
	cfg.Config.RecordDir = "/var/log/zoscore"
	assert.Equal(t, "/var/log/zoscore", ResolveRecordDir(cfg))
}
