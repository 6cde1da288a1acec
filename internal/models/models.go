package models

import (
	"github.com/google/uuid"
	"github.com/graceinfra/zoscore/types"
)

// InvocationRecord contains everything about a single module invocation. It
// is written to the record directory as <timestamp>_<module>_<id>.json.
type InvocationRecord struct {
	InvocationId uuid.UUID       `json:"invocation_id"`
	Module       string          `json:"module"`
	Initiator    types.Initiator `json:"initiator"`
	ZoweProfile  string          `json:"zowe_profile,omitempty"`
	TmpHLQ       string          `json:"tmp_hlq,omitempty"`
	CheckMode    bool            `json:"check_mode"`

	// Execution timing
	StartTime  string `json:"start_time"`
	FinishTime string `json:"finish_time"`
	DurationMs int64  `json:"duration_ms"`

	Params any `json:"params"`
	Result any `json:"result"`

	// Host tool command lines, in the order they ran
	Commands []string `json:"commands,omitempty"`
}
