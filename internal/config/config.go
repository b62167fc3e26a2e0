package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/nao1215/catalogscan/internal/model"
)

// Default configuration values.
// With no flags and no config file these reproduce the classic single run:
// one Netflix export in the working directory, charts under ./charts.
const (
	// DefaultInputPath is the dataset analyzed when no file is given.
	DefaultInputPath = "Netflix Dataset_1.csv"

	// DefaultOutputDir is the directory charts are written to.
	DefaultOutputDir = "charts"

	// DefaultTopN is how many genres and countries are printed and charted.
	DefaultTopN = 10

	// DefaultBatchSize of 1 analyzes datasets one after another.
	DefaultBatchSize = 1

	// DefaultChartWidth is the chart width in inches.
	DefaultChartWidth = 8.0

	// DefaultChartHeight is the chart height in inches.
	DefaultChartHeight = 5.0

	// AppName is the application name used for XDG directory paths.
	AppName = "catalogscan"
)

// Config holds all configuration options for catalogscan.
// This struct is populated from CLI flags and the config file and passed
// through the application rather than kept in global state.
type Config struct {
	// Inputs are the dataset files to analyze.
	Inputs []string

	// OutputDir is the directory charts are written to.
	// With more than one input every dataset gets its own subdirectory.
	OutputDir string

	// TopN limits the genre and country tables in console output and charts.
	TopN int

	// Delimiter forces the field delimiter. Zero detects it from the file name.
	Delimiter rune

	// ChartWidth and ChartHeight are the chart size in inches.
	ChartWidth  float64
	ChartHeight float64

	// RenderCharts controls whether charts are rendered at all.
	RenderCharts bool

	// Aliases replaces the column aliases of individual roles.
	// Roles not present keep model.DefaultAliases.
	Aliases map[model.Role][]string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of datasets analyzed concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the default locations (see FindConfigFile).
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the console summary.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the console summary.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory of the SQLite history database.
	// Defaults to XDG data directory (~/.local/share/catalogscan on Linux).
	DBDir string

	// SaveToDB indicates whether to record runs in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Inputs:       []string{DefaultInputPath},
		OutputDir:    DefaultOutputDir,
		TopN:         DefaultTopN,
		ChartWidth:   DefaultChartWidth,
		ChartHeight:  DefaultChartHeight,
		RenderCharts: true,
		BatchSize:    DefaultBatchSize,
		DBDir:        XDGDataDir(),
		SaveToDB:     true,
	}
}

// XDGDataDir returns the XDG data directory for catalogscan.
// On Linux: ~/.local/share/catalogscan
// On macOS: ~/Library/Application Support/catalogscan
// On Windows: %LOCALAPPDATA%\catalogscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for catalogscan.
// On Linux: ~/.config/catalogscan
// On macOS: ~/Library/Application Support/catalogscan
// On Windows: %APPDATA%\catalogscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies every value set in the config file onto c.
// Zero values in the file leave c unchanged.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.Top != 0 {
		c.TopN = f.Top
	}
	if f.Delimiter != "" {
		d, err := ParseDelimiter(f.Delimiter)
		if err != nil {
			return err
		}
		c.Delimiter = d
	}
	if f.Chart.Width != 0 {
		c.ChartWidth = f.Chart.Width
	}
	if f.Chart.Height != 0 {
		c.ChartHeight = f.Chart.Height
	}
	aliases, err := f.RoleAliases()
	if err != nil {
		return err
	}
	if len(aliases) > 0 {
		c.Aliases = aliases
	}
	return nil
}

// ChartDirs returns the chart directory of every input, by input position.
// A single input writes straight into OutputDir. Several inputs get one
// subdirectory each, named after the dataset. A name already taken, by an
// earlier input or by a repeat of the same path, is suffixed with the first
// free -2, -3 and so on.
func (c *Config) ChartDirs() []string {
	dirs := make([]string, len(c.Inputs))
	if len(c.Inputs) == 1 {
		dirs[0] = c.OutputDir
		return dirs
	}

	taken := make(map[string]bool, len(c.Inputs))
	for i, in := range c.Inputs {
		base := model.DatasetName(in)
		name := base
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		taken[name] = true
		dirs[i] = filepath.Join(c.OutputDir, name)
	}
	return dirs
}

// ParseDelimiter converts a delimiter setting into a rune.
// The empty string means auto-detection and yields zero. "tab", `\t` and a
// literal tab select a tab; any other value must be a single character.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || !validDelimiter(r) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

// validDelimiter mirrors the delimiter rules of encoding/csv.
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.OutputDir == "" && c.RenderCharts {
		return ErrEmptyOutputDir
	}

	if c.TopN <= 0 {
		return ErrInvalidTopN
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return ErrInvalidChartSize
	}

	if c.Delimiter != 0 && !validDelimiter(c.Delimiter) {
		return ErrInvalidDelimiter
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
