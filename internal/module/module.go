// Package module holds what every module subcommand shares: decoding the
// args file, recording the invocation and emitting the result.
package module

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/log"
	"github.com/graceinfra/zoscore/internal/logging"
	"github.com/graceinfra/zoscore/internal/models"
	"github.com/graceinfra/zoscore/internal/resolver"
	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/types"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// controllerKeys are the controller-internal keys CommonArgs decodes. Other
// "_ansible_" keys are dropped before strict decoding.
var controllerKeys = map[string]bool{
	"_ansible_check_mode": true,
	"_ansible_verbosity":  true,
}

// LoadArgs decodes a JSON or YAML args file into v. Unknown keys are
// rejected so typos surface instead of being silently ignored.
func LoadArgs(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read args file %s: %w", path, err)
	}
	if err := DecodeArgs(data, v); err != nil {
		return fmt.Errorf("failed to parse args file %s: %w", path, err)
	}
	return nil
}

func DecodeArgs(data []byte, v any) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if root.Kind == 0 {
		return nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return errors.New("args must be a mapping of option names to values")
	}

	m := root.Content[0]
	kept := make([]*yaml.Node, 0, len(m.Content))
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		if strings.HasPrefix(key, "_ansible_") && !controllerKeys[key] {
			continue
		}
		kept = append(kept, m.Content[i], m.Content[i+1])
	}
	m.Content = kept

	cleaned, err := yaml.Marshal(&root)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(cleaned))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// Invocation tracks one module run from context creation to result.
type Invocation struct {
	Ctx      *context.ExecutionContext
	Recorder *runner.Recorder
	Params   any
}

// Start wraps ctx.Runner so every host tool call is recorded, and rebuilds
// the ZOAU client around the recorder.
func Start(ctx *context.ExecutionContext, params any) *Invocation {
	rec := runner.NewRecorder(ctx.Runner)
	ctx.Runner = rec
	ctx.ZOAU = ctx.ZOAU.WithRunner(rec)
	return &Invocation{Ctx: ctx, Recorder: rec, Params: params}
}

// Finish marks res failed when err is set, saves the invocation record when
// a record directory is configured, prints the result and returns the
// process exit code.
func (inv *Invocation) Finish(res types.Result, err error) int {
	if err != nil {
		res.Base().Fail(err)
		zlog.Error().Err(err).Str("module", inv.Ctx.Module).Msg("Module failed")
	}

	if inv.Ctx.RecordDir != "" {
		finish := time.Now()
		record := models.InvocationRecord{
			InvocationId: inv.Ctx.InvocationId,
			Module:       inv.Ctx.Module,
			Initiator:    inv.Ctx.Initiator(),
			ZoweProfile:  resolver.ResolveProfile(inv.Ctx.Config),
			TmpHLQ:       resolver.ResolveTmpHLQ("", inv.Ctx.Config),
			CheckMode:    inv.Ctx.CheckMode,
			StartTime:    inv.Ctx.StartTime.Format(time.RFC3339),
			FinishTime:   finish.Format(time.RFC3339),
			DurationMs:   finish.Sub(inv.Ctx.StartTime).Milliseconds(),
			Params:       inv.Params,
			Result:       res,
			Commands:     inv.Recorder.Commands(),
		}
		path, saveErr := logging.SaveInvocationRecord(inv.Ctx.RecordDir, record, inv.Ctx.StartTime)
		if saveErr != nil {
			zlog.Warn().Err(saveErr).Msg("Failed to save invocation record")
		} else {
			zlog.Debug().Str("path", path).Msg("Saved invocation record")
		}
	}

	return Emit(inv.Ctx.Logger, res)
}

// Emit prints res in the logger's output style and returns the exit code.
func Emit(logger *log.ModuleLogger, res types.Result) int {
	out := res.Base()

	if err := logger.Json(res); err != nil {
		zlog.Error().Err(err).Msg("Failed to write result")
		return 1
	}

	if out.Failed {
		logger.Error("%s", out.Msg)
		return 1
	}
	logger.Info("✓ Done (changed: %t)", out.Changed)
	if logger.OutputStyle == types.StyleHumanVerbose {
		if b, err := json.MarshalIndent(res, "", "  "); err == nil {
			logger.Verbose("%s", string(b))
		}
	}
	return 0
}
