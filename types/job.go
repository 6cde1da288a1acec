package types

// Job submission locations.
const (
	LocationDataSet = "DATA_SET"
	LocationUSS     = "USS"
	LocationLocal   = "LOCAL"
)

type JobSubmitParams struct {
	Src          string         `yaml:"src" json:"src"`
	Location     string         `yaml:"location" json:"location"`
	WaitTimeS    int            `yaml:"wait_time_s" json:"wait_time_s"`
	MaxRC        *int           `yaml:"max_rc,omitempty" json:"max_rc,omitempty"`
	ReturnOutput bool           `yaml:"return_output" json:"return_output"`
	UseTemplate  bool           `yaml:"use_template" json:"use_template"`
	Template     TemplateConfig `yaml:"template_parameters,omitempty" json:"template_parameters"`
	Vars         map[string]any `yaml:"vars,omitempty" json:"-"`

	CommonArgs `yaml:",inline" json:"-"`
}

func (p *JobSubmitParams) Normalize() {
	if p.Location == "" {
		p.Location = LocationDataSet
	}
}

// TemplateConfig controls rendering of a local JCL template before it is
// submitted.
type TemplateConfig struct {
	VariableStartString string `yaml:"variable_start_string,omitempty" json:"variable_start_string,omitempty"`
	VariableEndString   string `yaml:"variable_end_string,omitempty" json:"variable_end_string,omitempty"`
	NewlineSequence     string `yaml:"newline_sequence,omitempty" json:"newline_sequence,omitempty"`
	KeepTrailingNewline bool   `yaml:"keep_trailing_newline,omitempty" json:"keep_trailing_newline,omitempty"`
}

type JobSubmitResult struct {
	Outcome

	Jobs       []JobSummary `json:"jobs"`
	DurationMs int64        `json:"duration_ms"`
}

// JobSummary provides a concise overview of a single submitted job.
type JobSummary struct {
	JobID      string  `json:"job_id"`
	JobName    string  `json:"job_name"`
	Owner      string  `json:"owner,omitempty"`
	Class      string  `json:"class,omitempty"`
	Status     string  `json:"status"`
	RetCode    RetCode `json:"ret_code"`
	SubmitTime string  `json:"submit_time"`
	FinishTime string  `json:"finish_time,omitempty"`
	Spool      string  `json:"spool,omitempty"`
}

type ZoweRfj struct {
	Success  bool          `json:"success"`
	ExitCode int           `json:"exitCode"`
	Message  string        `json:"message"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	Data     *ZoweRfjData  `json:"data,omitempty"`
	Error    *ZoweRfjError `json:"error,omitempty"`
}

func (r ZoweRfj) GetJobName() string { return r.Data.JobName }
func (r ZoweRfj) GetJobID() string   { return r.Data.JobID }
func (r ZoweRfj) GetStatus() string  { return r.Data.Status }

func (r ZoweRfj) GetError() string {
	if r.Error == nil {
		return r.Message
	}
	return r.Error.Msg
}

type ZoweRfjData struct {
	JobID     string  `json:"jobid"`
	JobName   string  `json:"jobname"`
	Status    string  `json:"status"`
	Class     string  `json:"class"`
	Phase     int     `json:"phase"`
	PhaseName string  `json:"phase-name"`
	Subsystem string  `json:"subsystem"`
	Owner     string  `json:"owner"`
	Type      string  `json:"type"`
	URL       string  `json:"url"`
	FilesURL  string  `json:"files-url"`
	RetCode   *string `json:"retcode"` // can be null
}

type ZoweRfjError struct {
	Msg         string `json:"msg"`
	CauseErrors string `json:"causeErrors"`
	Source      string `json:"source"`
	ErrorCode   int    `json:"errorCode"`
	HTTPStatus  int    `json:"httpStatus"`
	Additional  string `json:"additionalDetails"`
}
