package resolver

import (
	"time"

	"github.com/graceinfra/zoscore/internal/paths"
	"github.com/graceinfra/zoscore/types"
)

const (
	DefaultWaitTimeS = 10
	DefaultRecordDir = ".zoscore/records"
)

// Helper to return the task value when set, else the config value, else the
// hardcoded default
func resolveString(override, configured, fallback string) string {
	if override != "" {
		return override
	}
	if configured != "" {
		return configured
	}
	return fallback
}

// --- Resolver functions ---

// ResolveTmpHLQ picks the HLQ used for temporary data sets.
func ResolveTmpHLQ(param string, cfg *types.ZoscoreConfig) string {
	configured := ""
	if cfg != nil {
		configured = cfg.Config.TmpHLQ
	}
	return resolveString(param, configured, paths.DefaultHLQ())
}

func ResolveProfile(cfg *types.ZoscoreConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.Config.Profile
}

func ResolveWaitTime(paramSeconds int, cfg *types.ZoscoreConfig) time.Duration {
	seconds := DefaultWaitTimeS
	if cfg != nil && cfg.Config.WaitTimeS > 0 {
		seconds = cfg.Config.WaitTimeS
	}
	if paramSeconds > 0 {
		seconds = paramSeconds
	}
	return time.Duration(seconds) * time.Second
}

func ResolveRecordDir(cfg *types.ZoscoreConfig) string {
	configured := ""
	if cfg != nil {
		configured = cfg.Config.RecordDir
	}
	return resolveString("", configured, DefaultRecordDir)
}

func ResolveTools(cfg *types.ZoscoreConfig) types.ToolNames {
	if cfg == nil {
		return types.ToolNames{}
	}
	return cfg.Tools
}
