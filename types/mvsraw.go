package types

type MVSRawParams struct {
	ProgramName string        `yaml:"program_name" json:"program_name"`
	Pgm         string        `yaml:"pgm,omitempty" json:"-"`
	Auth        bool          `yaml:"auth" json:"auth"`
	Parm        string        `yaml:"parm" json:"parm"`
	MaxRC       int           `yaml:"max_rc" json:"max_rc"`
	TmpHLQ      string        `yaml:"tmp_hlq" json:"tmp_hlq"`
	Verbose     bool          `yaml:"verbose" json:"verbose"`
	DDs         []DDStatement `yaml:"dds" json:"dds"`

	CommonArgs `yaml:",inline" json:"-"`
}

func (p *MVSRawParams) Normalize() {
	if p.ProgramName == "" {
		p.ProgramName = p.Pgm
	}
	p.Pgm = ""
}

// DDStatement holds exactly one DD kind.
type DDStatement struct {
	DataSet *DDDataSet `yaml:"dd_data_set,omitempty" json:"dd_data_set,omitempty"`
	Unix    *DDUnix    `yaml:"dd_unix,omitempty" json:"dd_unix,omitempty"`
	Input   *DDInput   `yaml:"dd_input,omitempty" json:"dd_input,omitempty"`
	Output  *DDOutput  `yaml:"dd_output,omitempty" json:"dd_output,omitempty"`
	Dummy   *DDDummy   `yaml:"dd_dummy,omitempty" json:"dd_dummy,omitempty"`
	Concat  *DDConcat  `yaml:"dd_concat,omitempty" json:"dd_concat,omitempty"`
}

type ReturnContent struct {
	Type             string `yaml:"type" json:"type"` // text or base64
	SrcEncoding      string `yaml:"src_encoding" json:"src_encoding"`
	ResponseEncoding string `yaml:"response_encoding" json:"response_encoding"`
}

type DDDataSet struct {
	DDName        string         `yaml:"dd_name" json:"dd_name"`
	DataSetName   string         `yaml:"data_set_name" json:"data_set_name"`
	Disposition   string         `yaml:"disposition" json:"disposition"`
	Type          string         `yaml:"type" json:"type"`
	RecordFormat  string         `yaml:"record_format" json:"record_format"`
	RecordLength  int            `yaml:"record_length" json:"record_length"`
	Replace       bool           `yaml:"replace" json:"replace"`
	Reuse         bool           `yaml:"reuse" json:"reuse"`
	ReturnContent *ReturnContent `yaml:"return_content,omitempty" json:"return_content,omitempty"`
}

type DDUnix struct {
	DDName        string         `yaml:"dd_name" json:"dd_name"`
	Path          string         `yaml:"path" json:"path"`
	ReturnContent *ReturnContent `yaml:"return_content,omitempty" json:"return_content,omitempty"`
}

type DDInput struct {
	DDName        string         `yaml:"dd_name" json:"dd_name"`
	Content       Lines          `yaml:"content" json:"content"`
	ReturnContent *ReturnContent `yaml:"return_content,omitempty" json:"return_content,omitempty"`
}

type DDOutput struct {
	DDName        string         `yaml:"dd_name" json:"dd_name"`
	ReturnContent *ReturnContent `yaml:"return_content,omitempty" json:"return_content,omitempty"`
}

type DDDummy struct {
	DDName string `yaml:"dd_name" json:"dd_name"`
}

type DDConcat struct {
	DDName string        `yaml:"dd_name" json:"dd_name"`
	DDs    []DDStatement `yaml:"dds" json:"dds"`
}

type RetCode struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
}

type DDResult struct {
	DDName      string   `json:"dd_name"`
	Name        string   `json:"name"`
	Content     []string `json:"content"`
	RecordCount int      `json:"record_count"`
	ByteCount   int      `json:"byte_count"`
}

type MVSRawResult struct {
	Outcome

	RetCode RetCode    `json:"ret_code"`
	DDNames []DDResult `json:"dd_names"`
	Stdout  string     `json:"stdout"`
	Stderr  string     `json:"stderr"`
	Command []string   `json:"command,omitempty"`
}
