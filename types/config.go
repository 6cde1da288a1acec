package types

type OutputStyle int

const (
	StyleHuman OutputStyle = iota
	StyleHumanVerbose
	StyleMachineJSON
)

// ZoscoreConfig is the optional zoscore.yml that supplies defaults shared by
// every module invocation on a host.
type ZoscoreConfig struct {
	Config struct {
		Profile   string `yaml:"profile"`
		TmpHLQ    string `yaml:"tmp_hlq"`
		WaitTimeS int    `yaml:"wait_time_s"`
		RecordDir string `yaml:"record_dir,omitempty"`
	} `yaml:"config"`

	Tools ToolNames `yaml:"tools,omitempty"`
}

// ToolNames lets a site point zoscore at differently named or located host
// utilities. Empty fields fall back to the ZOAU defaults.
type ToolNames struct {
	Dls        string `yaml:"dls,omitempty"`
	Dtouch     string `yaml:"dtouch,omitempty"`
	Drm        string `yaml:"drm,omitempty"`
	Dcat       string `yaml:"dcat,omitempty"`
	Mvscmd     string `yaml:"mvscmd,omitempty"`
	Mvscmdauth string `yaml:"mvscmdauth,omitempty"`
	Tsocmd     string `yaml:"tsocmd,omitempty"`
	Zowe       string `yaml:"zowe,omitempty"`
}

type ZoweConfig struct {
	Schema    string                 `json:"$schema"`
	Profiles  map[string]ZoweProfile `json:"profiles"`
	Defaults  map[string]string      `json:"defaults"`
	AutoStore bool                   `json:"autoStore"`
}

type ZoweProfile struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Secure     []string       `json:"secure"`
}
