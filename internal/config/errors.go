package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.RoleAliases() so
// callers can use errors.Is() while users still get a readable message.
var (
	// ErrNoInput is returned when there is no dataset to analyze.
	ErrNoInput = errors.New("no input specified: provide at least one dataset file")

	// ErrEmptyOutputDir is returned when charts are enabled without an output directory.
	ErrEmptyOutputDir = errors.New("invalid output directory: must not be empty")

	// ErrInvalidTopN is returned when the top-N cut is not positive.
	ErrInvalidTopN = errors.New("invalid top: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidChartSize is returned when a chart dimension is not positive.
	ErrInvalidChartSize = errors.New("invalid chart size: width and height must be positive")

	// ErrInvalidDelimiter is returned for a delimiter encoding/csv cannot use.
	ErrInvalidDelimiter = errors.New("invalid delimiter: must be a single character other than quote or newline")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownRole is returned when the config file lists aliases for an unknown role.
	ErrUnknownRole = errors.New("unknown role in config file")

	// ErrEmptyAliases is returned when a role in the config file has no aliases.
	ErrEmptyAliases = errors.New("role has no column aliases")
)
