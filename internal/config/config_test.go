package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/graceinfra/zoscore/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      *types.ZoscoreConfig
		shouldError bool
		errContains string
	}{
		{
			name:        "Valid config",
			config:      createValidConfig(),
			shouldError: false,
		},
		{
			name:        "Empty config is valid",
			config:      &types.ZoscoreConfig{},
			shouldError: false,
		},
		{
			name:        "Profile with whitespace",
			config:      modifyConfig(createValidConfig(), func(c *types.ZoscoreConfig) { c.Config.Profile = "my profile" }),
			shouldError: true,
			errContains: "must not contain whitespace",
		},
		{
			name:        "Multi-qualifier tmp_hlq",
			config:      modifyConfig(createValidConfig(), func(c *types.ZoscoreConfig) { c.Config.TmpHLQ = "IBMUSER.TMP" }),
			shouldError: true,
			errContains: "must be a single qualifier",
		},
		{
			name:        "tmp_hlq too long",
			config:      modifyConfig(createValidConfig(), func(c *types.ZoscoreConfig) { c.Config.TmpHLQ = "TOOLONGHLQ" }),
			shouldError: true,
			errContains: "exceeds 8 characters",
		},
		{
			name:        "Negative wait time",
			config:      modifyConfig(createValidConfig(), func(c *types.ZoscoreConfig) { c.Config.WaitTimeS = -1 }),
			shouldError: true,
			errContains: "field 'config.wait_time_s' cannot be negative",
		},
		{
			name:        "Tool with arguments",
			config:      modifyConfig(createValidConfig(), func(c *types.ZoscoreConfig) { c.Tools.Dls = "dls -v" }),
			shouldError: true,
			errContains: "tools.dls",
		},
		{
			name: "Errors are collected",
			config: modifyConfig(createValidConfig(), func(c *types.ZoscoreConfig) {
				c.Config.WaitTimeS = -1
				c.Config.TmpHLQ = "A.B"
			}),
			shouldError: true,
			errContains: "validation failed:\n- config.tmp_hlq \"A.B\" must be a single qualifier\n- field 'config.wait_time_s' cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.config)

			if tt.shouldError {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zoscore.yml")
	require.NoError(t, os.WriteFile(path, []byte(`config:
  profile: zosmf
  tmp_hlq: ibmuser
  wait_time_s: 30
tools:
  mvscmdauth: /usr/lpp/IBM/zoautil/bin/mvscmdauth
`), 0644))

	cfg, cfgDir, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "zosmf", cfg.Config.Profile)
	assert.Equal(t, "ibmuser", cfg.Config.TmpHLQ)
	assert.Equal(t, 30, cfg.Config.WaitTimeS)
	assert.Equal(t, "/usr/lpp/IBM/zoautil/bin/mvscmdauth", cfg.Tools.Mvscmdauth)
	assert.Equal(t, dir, cfgDir)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoscore.yml")
	require.NoError(t, os.WriteFile(path, []byte("config:\n  profle: zosmf\n"), 0644))

	_, _, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadOptionalConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "zoscore.yml")

	cfg, dir, err := LoadOptionalConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, &types.ZoscoreConfig{}, cfg)
	assert.Empty(t, dir)

	_, _, err = LoadOptionalConfig(missing, true)
	assert.Error(t, err)
}

// Helper functions to create test configurations

func createValidConfig() *types.ZoscoreConfig {
	cfg := &types.ZoscoreConfig{}
	cfg.Config.Profile = "zosmf"
	cfg.Config.TmpHLQ = "IBMUSER"
	cfg.Config.WaitTimeS = 10
	cfg.Tools.Zowe = "/usr/local/bin/zowe"
	return cfg
}

func modifyConfig(cfg *types.ZoscoreConfig, modifier func(*types.ZoscoreConfig)) *types.ZoscoreConfig {
	modifier(cfg)
	return cfg
}
