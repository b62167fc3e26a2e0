package report

import (
	"io"
	"sync"

	"github.com/nao1215/catalogscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations write analysis results in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.CatalogReport) (int, error)

	// WriteComparison outputs the difference between two runs.
	WriteComparison(c *model.Comparison) (int, error)
}

// SyncWriter serializes calls to a Writer so that concurrent pipelines
// never interleave their output.
type SyncWriter struct {
	mu sync.Mutex
	w  Writer
}

// NewSyncWriter wraps w with a mutex.
func NewSyncWriter(w Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

// Write outputs the report while holding the lock.
func (s *SyncWriter) Write(report *model.CatalogReport) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(report)
}

// WriteComparison outputs the comparison while holding the lock.
func (s *SyncWriter) WriteComparison(c *model.Comparison) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.WriteComparison(c)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// limitFor returns how many entries of role a report shows.
// The type table is never truncated.
func limitFor(role model.Role, topN int) int {
	if role == model.RoleType {
		return 0
	}
	return topN
}

// section pairs a categorical role with its console heading.
type section struct {
	role    model.Role
	heading string
	title   string
	label   string
}

// sections lists the categorical roles in report order.
var sections = []section{
	{role: model.RoleType, heading: "Movies vs TV Shows:", title: "Movies vs TV Shows", label: "Type"},
	{role: model.RoleGenre, heading: "Top Genres:", title: "Top Genres", label: "Genre"},
	{role: model.RoleCountry, heading: "Top Countries:", title: "Top Countries", label: "Country"},
}
