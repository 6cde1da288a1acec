package context

import (
	stdcontext "context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/graceinfra/zoscore/internal/log"
	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/internal/zoau"
	"github.com/graceinfra/zoscore/types"
)

// ExecutionContext carries what every module invocation shares: its id, the
// loaded zoscore.yml, the output logger and the runner used for host tools.
type ExecutionContext struct {
	// Ctx bounds every host tool invocation of the run
	Ctx stdcontext.Context

	InvocationId uuid.UUID
	StartTime    time.Time
	Module       string // "archive", "unarchive", "mvs-raw", "job-submit"

	Config    *types.ZoscoreConfig
	ConfigDir string // Directory that holds zoscore.yml, empty when none was loaded
	RecordDir string

	Logger *log.ModuleLogger
	Runner runner.Runner
	ZOAU   *zoau.Client

	CheckMode bool
}

func New(ctx stdcontext.Context, module string, cfg *types.ZoscoreConfig, logger *log.ModuleLogger, r runner.Runner) *ExecutionContext {
	if cfg == nil {
		cfg = &types.ZoscoreConfig{}
	}
	return &ExecutionContext{
		Ctx:          ctx,
		InvocationId: uuid.New(),
		StartTime:    time.Now(),
		Module:       module,
		Config:       cfg,
		Logger:       logger,
		Runner:       r,
		ZOAU:         zoau.NewClient(r, cfg.Tools),
	}
}

// Initiator describes who ran the module.
func (c *ExecutionContext) Initiator() types.Initiator {
	host, _ := os.Hostname()
	id := os.Getenv("USER")
	if id == "" {
		id = os.Getenv("LOGNAME")
	}
	kind := "user"
	if os.Getenv("CI") != "" {
		kind = "ci"
	}
	return types.Initiator{Type: kind, Id: id, Tenant: host}
}
