package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/graceinfra/zoscore/internal/utils"
	"github.com/graceinfra/zoscore/types"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "zoscore.yml"

// Zowe profile names are free-form but never contain whitespace.
var profileRegex = regexp.MustCompile(`^\S+$`)

// LoadConfig reads and validates a zoscore.yml. Unknown keys are rejected so
// typos surface instead of silently falling back to defaults.
func LoadConfig(filename string) (*types.ZoscoreConfig, string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var cfg types.ZoscoreConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, "", fmt.Errorf("validation error in %s: %w", filename, err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve path of %s: %w", filename, err)
	}
	return &cfg, filepath.Dir(absPath), nil
}

// LoadOptionalConfig loads filename when it exists. A missing file is only an
// error when the caller named it explicitly.
func LoadOptionalConfig(filename string, explicit bool) (*types.ZoscoreConfig, string, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) && !explicit {
		return &types.ZoscoreConfig{}, "", nil
	}
	return LoadConfig(filename)
}

func ValidateConfig(cfg *types.ZoscoreConfig) error {
	var errs []string

	// --- Validate top-level 'config' section ---
	if cfg.Config.Profile != "" && !profileRegex.MatchString(cfg.Config.Profile) {
		errs = append(errs, fmt.Sprintf("config.profile %q must not contain whitespace", cfg.Config.Profile))
	}

	if cfg.Config.TmpHLQ != "" {
		if strings.Contains(cfg.Config.TmpHLQ, ".") {
			errs = append(errs, fmt.Sprintf("config.tmp_hlq %q must be a single qualifier", cfg.Config.TmpHLQ))
		} else if err := utils.ValidateDataSetQualifiers(cfg.Config.TmpHLQ); err != nil {
			errs = append(errs, fmt.Sprintf("config.tmp_hlq: %v", err))
		}
	}

	if cfg.Config.WaitTimeS < 0 {
		errs = append(errs, "field 'config.wait_time_s' cannot be negative")
	}

	// --- Validate 'tools' section ---
	tools := map[string]string{
		"dls":        cfg.Tools.Dls,
		"dtouch":     cfg.Tools.Dtouch,
		"drm":        cfg.Tools.Drm,
		"dcat":       cfg.Tools.Dcat,
		"mvscmd":     cfg.Tools.Mvscmd,
		"mvscmdauth": cfg.Tools.Mvscmdauth,
		"tsocmd":     cfg.Tools.Tsocmd,
		"zowe":       cfg.Tools.Zowe,
	}
	for _, key := range []string{"dls", "dtouch", "drm", "dcat", "mvscmd", "mvscmdauth", "tsocmd", "zowe"} {
		if v := tools[key]; v != "" && strings.ContainsAny(v, " \t\n") {
			errs = append(errs, fmt.Sprintf("tools.%s %q must be a single command name or path", key, v))
		}
	}

	if len(errs) != 0 {
		return errors.New("zoscore configuration validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
