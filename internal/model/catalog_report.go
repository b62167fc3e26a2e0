package model

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CatalogReport is the result of analyzing one catalog dataset.
// Pipeline steps fill it in order: the loader sets Table, the resolver sets
// Resolved, the aggregators set the frequency tables and Years, and the chart
// step records the files it wrote.
//
// Frequency tables are stored untruncated. Writers and the chart renderer
// apply the top-N cut.
type CatalogReport struct {
	// RunID uniquely identifies this analysis run.
	RunID string `json:"run_id"`

	// Dataset is the path of the analyzed file.
	Dataset string `json:"dataset"`

	// DateAnalyzed is when the analysis started.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// RowCount is the number of data rows loaded.
	RowCount int `json:"row_count"`

	// Columns holds the trimmed column names of the input.
	Columns []string `json:"columns"`

	// Resolved maps each present role to its column.
	Resolved ResolvedColumns `json:"resolved_columns"`

	// Types is the content type distribution; nil when the role is absent.
	Types *FrequencyTable `json:"types,omitempty"`

	// Genres is the genre distribution; nil when the role is absent.
	Genres *FrequencyTable `json:"genres,omitempty"`

	// Countries is the country distribution; nil when the role is absent.
	Countries *FrequencyTable `json:"countries,omitempty"`

	// Years summarizes derived release years; nil when no year was derived.
	Years *YearSummary `json:"years,omitempty"`

	// TopN is the truncation used for genre and country output.
	TopN int `json:"top_n"`

	// ChartsDir is the directory charts were written to.
	ChartsDir string `json:"charts_dir,omitempty"`

	// Charts lists the chart files written during this run.
	Charts []ChartFile `json:"charts,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// ErrorMessage is the message of the error that stopped the run.
	ErrorMessage string `json:"error,omitempty"`

	// Table is the loaded data. Excluded from JSON due to size.
	Table *Table `json:"-"`

	// Error is the error that stopped the run, if any.
	Error error `json:"-"`
}

// ChartFile describes one rendered chart image.
type ChartFile struct {
	Role  Role   `json:"role"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// NewCatalogReport creates an empty report for the given dataset path.
func NewCatalogReport(dataset string) *CatalogReport {
	return &CatalogReport{
		RunID:        uuid.NewString(),
		Dataset:      dataset,
		DateAnalyzed: time.Now(),
		Resolved:     ResolvedColumns{},
	}
}

// Frequency returns the frequency table recorded for role, or nil.
func (r *CatalogReport) Frequency(role Role) *FrequencyTable {
	switch role {
	case RoleType:
		return r.Types
	case RoleGenre:
		return r.Genres
	case RoleCountry:
		return r.Countries
	default:
		return nil
	}
}

// SetFrequency records the frequency table for role. Tables for the release
// role are ignored; years are summarized in Years instead.
func (r *CatalogReport) SetFrequency(role Role, table *FrequencyTable) {
	switch role {
	case RoleType:
		r.Types = table
	case RoleGenre:
		r.Genres = table
	case RoleCountry:
		r.Countries = table
	}
}

// DatasetName returns the dataset file name without directory and
// extensions ("data/titles.csv.gz" -> "titles").
func (r *CatalogReport) DatasetName() string {
	return DatasetName(r.Dataset)
}

// DatasetName strips the directory and every extension from path.
func DatasetName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// Failed reports whether the run stopped with an error.
func (r *CatalogReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}

// Fail records err as the error that stopped the run.
func (r *CatalogReport) Fail(err error) {
	r.Error = err
	r.ErrorMessage = err.Error()
}
