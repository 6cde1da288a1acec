package types

// Archive destination states reported as dest_state.
const (
	StateAbsent     = "absent"
	StateArchived   = "archive"
	StateCompressed = "compress"
	StateIncomplete = "incomplete"
)

type ArchiveParams struct {
	Path              StringList `yaml:"path" json:"path"`
	Src               StringList `yaml:"src,omitempty" json:"-"`
	Dest              string     `yaml:"dest" json:"dest"`
	Format            string     `yaml:"format" json:"format"`
	ExcludePath       StringList `yaml:"exclude_path" json:"exclude_path"`
	ExclusionPatterns StringList `yaml:"exclusion_patterns" json:"exclusion_patterns"`
	ForceArchive      bool       `yaml:"force_archive" json:"force_archive"`
	Remove            bool       `yaml:"remove" json:"remove"`
	ReplaceDest       bool       `yaml:"replace_dest" json:"replace_dest"`
	Force             bool       `yaml:"force,omitempty" json:"-"`
	List              bool       `yaml:"list" json:"list"`
	TmpHLQ            string     `yaml:"tmp_hlq" json:"tmp_hlq"`
	Mode              string     `yaml:"mode" json:"mode"`
	Owner             string     `yaml:"owner" json:"owner"`
	Group             string     `yaml:"group" json:"group"`

	FormatOptions MVSFormatOptions `yaml:"format_options,omitempty" json:"format_options"`

	CommonArgs `yaml:",inline" json:"-"`
}

// MVSFormatOptions tune the host utilities used for terse and xmit.
type MVSFormatOptions struct {
	TersePack      string `yaml:"terse_pack,omitempty" json:"terse_pack,omitempty"` // PACK or SPACK
	XmitLogDataSet string `yaml:"xmit_log_data_set,omitempty" json:"xmit_log_data_set,omitempty"`
}

// Normalize folds option aliases into their canonical fields and applies
// defaults.
func (p *ArchiveParams) Normalize() {
	if len(p.Path) == 0 && len(p.Src) > 0 {
		p.Path = p.Src
	}
	p.Src = nil
	if p.Force {
		p.ReplaceDest = true
	}
	if p.Format == "" {
		p.Format = "gz"
	}
	if p.FormatOptions.TersePack == "" {
		p.FormatOptions.TersePack = "SPACK"
	}
}

type ArchiveResult struct {
	Outcome

	Dest                 string   `json:"dest"`
	DestState            string   `json:"dest_state"`
	Archived             []string `json:"archived"`
	Missing              []string `json:"missing"`
	ArcRoot              string   `json:"arcroot"`
	ExpandedPaths        []string `json:"expanded_paths"`
	ExpandedExcludePaths []string `json:"expanded_exclude_paths"`
	Targets              []string `json:"targets"`
	ArchiveContents      []string `json:"archive_contents,omitempty"`
}

type UnarchiveFormat struct {
	Name           string `yaml:"name" json:"name"`
	XmitLogDataSet string `yaml:"xmit_log_data_set,omitempty" json:"xmit_log_data_set,omitempty"`
}

type UnarchiveParams struct {
	Src     string          `yaml:"src" json:"src"`
	Path    string          `yaml:"path,omitempty" json:"-"`
	Dest    string          `yaml:"dest" json:"dest"`
	Format  UnarchiveFormat `yaml:"format" json:"format"`
	Include StringList      `yaml:"include" json:"include"`
	Exclude StringList      `yaml:"exclude" json:"exclude"`
	List    bool            `yaml:"list" json:"list"`
	Force   bool            `yaml:"force" json:"force"`
	TmpHLQ  string          `yaml:"tmp_hlq" json:"tmp_hlq"`

	CommonArgs `yaml:",inline" json:"-"`
}

func (p *UnarchiveParams) Normalize() {
	if p.Src == "" {
		p.Src = p.Path
	}
	p.Path = ""
}

type UnarchiveResult struct {
	Outcome

	Src             string   `json:"src"`
	DestPath        string   `json:"dest_path"`
	Targets         []string `json:"targets"`
	Missing         []string `json:"missing"`
	ArchiveContents []string `json:"archive_contents,omitempty"`
}
