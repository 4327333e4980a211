package config

// Alignment values for [[columns]] align.
const (
	AlignLeft   = "Left"
	AlignRight  = "Right"
	AlignCenter = "Center"
)

// Search modes for [search] numeric_search / nonnumeric_search.
const (
	SearchPartial = "Partial"
	SearchExact   = "Exact"
)

// Search logic for [search] logic and the -a/-o/-d/-r flags.
const (
	LogicAnd  = "And"
	LogicOr   = "Or"
	LogicNand = "Nand"
	LogicNor  = "Nor"
)

// Case handling for [search] case.
const (
	CaseSmart       = "Smart"
	CaseSensitive   = "Sensitive"
	CaseInsensitive = "Insensitive"
)

// Modes shared by colour and pager selection.
const (
	ModeAuto    = "Auto"
	ModeAlways  = "Always"
	ModeDisable = "Disable"
)

// Theme selection.
const (
	ThemeAuto  = "Auto"
	ThemeDark  = "Dark"
	ThemeLight = "Light"
)

// Sort orders for [sort] order.
const (
	OrderAscending  = "Ascending"
	OrderDescending = "Descending"
)

// Column styles that derive the colour from the cell value instead of a
// fixed colour name.
const (
	StyleByPercentage = "ByPercentage"
	StyleByState      = "ByState"
	StyleByUnit       = "ByUnit"
)

// Config represents the complete TOML configuration file.
type Config struct {
	Columns []ColumnConfig `mapstructure:"columns" toml:"columns"`
	Style   StyleConfig    `mapstructure:"style" toml:"style"`
	Search  SearchConfig   `mapstructure:"search" toml:"search"`
	Display DisplayConfig  `mapstructure:"display" toml:"display"`
	Sort    SortConfig     `mapstructure:"sort" toml:"sort"`
	Docker  DockerConfig   `mapstructure:"docker" toml:"docker"`
	Pager   PagerConfig    `mapstructure:"pager" toml:"pager"`
	Cgroup  CgroupConfig   `mapstructure:"cgroup" toml:"cgroup"`
}

// ColumnConfig is one [[columns]] entry.
type ColumnConfig struct {
	// Kind names the attribute (see `pst --list`).
	Kind string `mapstructure:"kind" toml:"kind"`

	// Style is a colour ("BrightGreen|Green" for dark|light) or one of
	// ByPercentage, ByState, ByUnit.
	Style string `mapstructure:"style" toml:"style"`

	NumericSearch    bool   `mapstructure:"numeric_search" toml:"numeric_search"`
	NonnumericSearch bool   `mapstructure:"nonnumeric_search" toml:"nonnumeric_search"`
	Align            string `mapstructure:"align" toml:"align"`

	// Zero means unconstrained.
	MaxWidth int `mapstructure:"max_width" toml:"max_width,omitempty"`
	MinWidth int `mapstructure:"min_width" toml:"min_width,omitempty"`

	// Header overrides the kind's default header text.
	Header string `mapstructure:"header" toml:"header,omitempty"`
}

// StyleConfig holds the theme colours. Every value is "Dark|Light" or a
// single colour name used for both themes.
type StyleConfig struct {
	Header       string             `mapstructure:"header" toml:"header"`
	Unit         string             `mapstructure:"unit" toml:"unit"`
	Tree         string             `mapstructure:"tree" toml:"tree"`
	ByPercentage ByPercentageConfig `mapstructure:"by_percentage" toml:"by_percentage"`
	ByState      ByStateConfig      `mapstructure:"by_state" toml:"by_state"`
	ByUnit       ByUnitConfig       `mapstructure:"by_unit" toml:"by_unit"`
}

// ByPercentageConfig colours percentage cells in five bands.
type ByPercentageConfig struct {
	Color000 string `mapstructure:"color_000" toml:"color_000"`
	Color025 string `mapstructure:"color_025" toml:"color_025"`
	Color050 string `mapstructure:"color_050" toml:"color_050"`
	Color075 string `mapstructure:"color_075" toml:"color_075"`
	Color100 string `mapstructure:"color_100" toml:"color_100"`
}

// ByStateConfig colours process state letters.
type ByStateConfig struct {
	ColorD string `mapstructure:"color_d" toml:"color_d"`
	ColorR string `mapstructure:"color_r" toml:"color_r"`
	ColorS string `mapstructure:"color_s" toml:"color_s"`
	ColorT string `mapstructure:"color_t" toml:"color_t"`
	ColorZ string `mapstructure:"color_z" toml:"color_z"`
	ColorX string `mapstructure:"color_x" toml:"color_x"`
	ColorK string `mapstructure:"color_k" toml:"color_k"`
	ColorW string `mapstructure:"color_w" toml:"color_w"`
	ColorP string `mapstructure:"color_p" toml:"color_p"`
}

// ByUnitConfig colours byte counts by their suffix. ColorX covers values
// without a suffix.
type ByUnitConfig struct {
	ColorK string `mapstructure:"color_k" toml:"color_k"`
	ColorM string `mapstructure:"color_m" toml:"color_m"`
	ColorG string `mapstructure:"color_g" toml:"color_g"`
	ColorT string `mapstructure:"color_t" toml:"color_t"`
	ColorP string `mapstructure:"color_p" toml:"color_p"`
	ColorX string `mapstructure:"color_x" toml:"color_x"`
}

// SearchConfig controls keyword matching.
type SearchConfig struct {
	NumericSearch    string `mapstructure:"numeric_search" toml:"numeric_search"`
	NonnumericSearch string `mapstructure:"nonnumeric_search" toml:"nonnumeric_search"`
	Logic            string `mapstructure:"logic" toml:"logic"`
	Case             string `mapstructure:"case" toml:"case"`
}

// DisplayConfig controls the table layout and terminal handling.
type DisplayConfig struct {
	ShowSelf           bool `mapstructure:"show_self" toml:"show_self"`
	ShowThread         bool `mapstructure:"show_thread" toml:"show_thread"`
	ShowThreadInTree   bool `mapstructure:"show_thread_in_tree" toml:"show_thread_in_tree"`
	ShowParentInTree   bool `mapstructure:"show_parent_in_tree" toml:"show_parent_in_tree"`
	ShowChildrenInTree bool `mapstructure:"show_children_in_tree" toml:"show_children_in_tree"`
	ShowKthreads       bool `mapstructure:"show_kthreads" toml:"show_kthreads"`
	ShowHeader         bool `mapstructure:"show_header" toml:"show_header"`
	ShowFooter         bool `mapstructure:"show_footer" toml:"show_footer"`
	CutToTerminal      bool `mapstructure:"cut_to_terminal" toml:"cut_to_terminal"`
	CutToPager         bool `mapstructure:"cut_to_pager" toml:"cut_to_pager"`
	CutToPipe          bool `mapstructure:"cut_to_pipe" toml:"cut_to_pipe"`

	// ColorMode is Auto, Always or Disable.
	ColorMode string `mapstructure:"color_mode" toml:"color_mode"`

	// Separator is the text drawn by Separator columns.
	Separator string `mapstructure:"separator" toml:"separator"`

	// Ascending and Descending mark the header of the sort column.
	Ascending  string `mapstructure:"ascending" toml:"ascending"`
	Descending string `mapstructure:"descending" toml:"descending"`

	// TreeSymbols is [vertical, dash, fork, tee, elbow].
	TreeSymbols []string `mapstructure:"tree_symbols" toml:"tree_symbols"`

	// Theme is Auto, Dark or Light.
	Theme string `mapstructure:"theme" toml:"theme"`

	// StartTimeFormat is a Go time layout for the StartTime column.
	StartTimeFormat string `mapstructure:"start_time_format" toml:"start_time_format"`
}

// SortConfig selects the default sort column (index into Columns).
type SortConfig struct {
	Column int    `mapstructure:"column" toml:"column"`
	Order  string `mapstructure:"order" toml:"order"`
}

// DockerConfig locates the Docker daemon used by the Docker column.
type DockerConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// PagerConfig controls output paging.
type PagerConfig struct {
	Mode        string `mapstructure:"mode" toml:"mode"`
	DetectWidth bool   `mapstructure:"detect_width" toml:"detect_width"`

	// Command replaces the default "less -SR" / "more -f" choice.
	Command string `mapstructure:"command" toml:"command,omitempty"`
}

// CgroupConfig holds the rewrite table applied by the Ccgroup column.
type CgroupConfig struct {
	Substitutions []Substitution `mapstructure:"substitutions" toml:"substitutions"`
}

// Substitution is one regex rewrite; Replacement may reference groups as ${1}.
type Substitution struct {
	Pattern     string `mapstructure:"pattern" toml:"pattern"`
	Replacement string `mapstructure:"replacement" toml:"replacement"`
}

// DefaultTreeSymbols are [vertical, dash, fork, tee, elbow].
var DefaultTreeSymbols = []string{"│", "─", "┬", "├", "└"}

// DefaultConfig returns the built-in "default" configuration.
func DefaultConfig() *Config {
	return &Config{
		Columns: defaultColumns(),
		Style:   defaultStyle(),
		Search: SearchConfig{
			NumericSearch:    SearchExact,
			NonnumericSearch: SearchPartial,
			Logic:            LogicAnd,
			Case:             CaseSmart,
		},
		Display: DisplayConfig{
			ShowSelf:           false,
			ShowThread:         false,
			ShowThreadInTree:   false,
			ShowParentInTree:   true,
			ShowChildrenInTree: true,
			ShowKthreads:       true,
			ShowHeader:         true,
			ShowFooter:         false,
			CutToTerminal:      true,
			CutToPager:         false,
			CutToPipe:          false,
			ColorMode:          ModeAuto,
			Separator:          "|",
			Ascending:          "▲",
			Descending:         "▼",
			TreeSymbols:        append([]string(nil), DefaultTreeSymbols...),
			Theme:              ThemeAuto,
			StartTimeFormat:    "2006/01/02 15:04",
		},
		Sort: SortConfig{
			Column: 0,
			Order:  OrderAscending,
		},
		Docker: DockerConfig{
			Path: "unix:///var/run/docker.sock",
		},
		Pager: PagerConfig{
			Mode:        ModeAuto,
			DetectWidth: false,
		},
		Cgroup: CgroupConfig{
			Substitutions: defaultSubstitutions(),
		},
	}
}

// LargeConfig returns the built-in "large" configuration: the default
// settings with a wider column set.
func LargeConfig() *Config {
	cfg := DefaultConfig()
	cfg.Columns = largeColumns()
	return cfg
}

// Builtin returns the named built-in configuration ("default" or "large").
func Builtin(name string) (*Config, bool) {
	switch name {
	case "", "default":
		return DefaultConfig(), true
	case "large":
		return LargeConfig(), true
	}
	return nil, false
}

func defaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{Kind: "Pid", Style: "BrightYellow|Yellow", NumericSearch: true, Align: AlignRight},
		{Kind: "User", Style: "BrightGreen|Green", NonnumericSearch: true, Align: AlignLeft},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "TcpPort", Style: "BrightCyan|Cyan", NumericSearch: true, Align: AlignLeft, MaxWidth: 20},
		{Kind: "UdpPort", Style: "BrightCyan|Cyan", NumericSearch: true, Align: AlignLeft, MaxWidth: 20},
		{Kind: "Docker", Style: "BrightGreen|Green", NonnumericSearch: true, Align: AlignLeft},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "UsageCpu", Style: StyleByPercentage, Align: AlignRight},
		{Kind: "UsageMem", Style: StyleByPercentage, Align: AlignRight},
		{Kind: "CpuTime", Style: "BrightCyan|Cyan", Align: AlignLeft},
		{Kind: "Slot", Style: "BrightWhite|Default", Align: AlignLeft},
		{Kind: "Slot", Style: "BrightWhite|Default", Align: AlignLeft},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "Command", Style: "BrightWhite|Default", NonnumericSearch: true, Align: AlignLeft},
	}
}

func largeColumns() []ColumnConfig {
	return []ColumnConfig{
		{Kind: "Pid", Style: "BrightYellow|Yellow", NumericSearch: true, Align: AlignRight},
		{Kind: "Ppid", Style: "Yellow|Yellow", NumericSearch: true, Align: AlignRight},
		{Kind: "User", Style: "BrightGreen|Green", NonnumericSearch: true, Align: AlignLeft},
		{Kind: "Group", Style: "Green|Green", NonnumericSearch: true, Align: AlignLeft},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "State", Style: StyleByState, Align: AlignLeft},
		{Kind: "Nice", Style: "BrightMagenta|Magenta", Align: AlignRight},
		{Kind: "Priority", Style: "BrightMagenta|Magenta", Align: AlignRight},
		{Kind: "Threads", Style: "BrightWhite|Default", Align: AlignRight},
		{Kind: "Tty", Style: "BrightWhite|Default", NonnumericSearch: true, Align: AlignLeft},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "TcpPort", Style: "BrightCyan|Cyan", NumericSearch: true, Align: AlignLeft, MaxWidth: 20},
		{Kind: "UdpPort", Style: "BrightCyan|Cyan", NumericSearch: true, Align: AlignLeft, MaxWidth: 20},
		{Kind: "Docker", Style: "BrightGreen|Green", NonnumericSearch: true, Align: AlignLeft},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "UsageCpu", Style: StyleByPercentage, Align: AlignRight},
		{Kind: "UsageMem", Style: StyleByPercentage, Align: AlignRight},
		{Kind: "VmRss", Style: StyleByUnit, Align: AlignRight},
		{Kind: "VmSize", Style: StyleByUnit, Align: AlignRight},
		{Kind: "VmSwap", Style: StyleByUnit, Align: AlignRight},
		{Kind: "ReadBytes", Style: StyleByUnit, Align: AlignRight},
		{Kind: "WriteBytes", Style: StyleByUnit, Align: AlignRight},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "StartTime", Style: "BrightMagenta|Magenta", Align: AlignLeft},
		{Kind: "ElapsedTime", Style: "BrightMagenta|Magenta", Align: AlignRight},
		{Kind: "CpuTime", Style: "BrightCyan|Cyan", Align: AlignLeft},
		{Kind: "Slot", Style: "BrightWhite|Default", Align: AlignLeft},
		{Kind: "Slot", Style: "BrightWhite|Default", Align: AlignLeft},
		{Kind: "Separator", Style: "White|Blue", Align: AlignLeft},
		{Kind: "Command", Style: "BrightWhite|Default", NonnumericSearch: true, Align: AlignLeft},
	}
}

func defaultStyle() StyleConfig {
	return StyleConfig{
		Header: "BrightWhite|Default",
		Unit:   "BrightWhite|Default",
		Tree:   "BrightWhite|Default",
		ByPercentage: ByPercentageConfig{
			Color000: "BrightBlue|Blue",
			Color025: "BrightGreen|Green",
			Color050: "BrightYellow|Yellow",
			Color075: "BrightRed|Red",
			Color100: "BrightRed|Red",
		},
		ByState: ByStateConfig{
			ColorD: "BrightRed|Red",
			ColorR: "BrightGreen|Green",
			ColorS: "BrightBlue|Blue",
			ColorT: "BrightCyan|Cyan",
			ColorZ: "BrightMagenta|Magenta",
			ColorX: "BrightMagenta|Magenta",
			ColorK: "BrightYellow|Yellow",
			ColorW: "BrightYellow|Yellow",
			ColorP: "BrightYellow|Yellow",
		},
		ByUnit: ByUnitConfig{
			ColorK: "BrightBlue|Blue",
			ColorM: "BrightGreen|Green",
			ColorG: "BrightYellow|Yellow",
			ColorT: "BrightRed|Red",
			ColorP: "BrightRed|Red",
			ColorX: "BrightBlue|Blue",
		},
	}
}

// defaultSubstitutions compress systemd and LXC cgroup paths. Rules apply
// in order; each rule sees the previous rule's output.
func defaultSubstitutions() []Substitution {
	return []Substitution{
		{Pattern: `^/system\.slice/docker-([0-9a-f]{12})[0-9a-f]*\.scope$`, Replacement: "docker:${1}"},
		{Pattern: `^/user\.slice/user-(\d+)\.slice/user@\d+\.service/(?:app\.slice/)?(.+?)\.(?:service|scope)$`, Replacement: "user${1}:${2}"},
		{Pattern: `^/user\.slice/user-(\d+)\.slice/session-(\d+)\.scope$`, Replacement: "user${1}:session${2}"},
		{Pattern: `^/system\.slice/(.+?)\.(?:service|scope)$`, Replacement: "${1}"},
		{Pattern: `^/lxc\.payload\.([^/]+).*$`, Replacement: "lxc:${1}"},
		{Pattern: `\.slice`, Replacement: ""},
	}
}
