package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/catalogscan/internal/model"
)

// FileName is the name of the history database inside the data directory.
const FileName = "catalogscan.db"

// ErrRunNotFound is returned when a requested run does not exist.
var ErrRunNotFound = errors.New("analysis run not found")

// HistoryDB stores completed analysis runs in SQLite.
// One database file holds the runs of every dataset.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		dataset TEXT NOT NULL,
		path TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		row_count INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL,
		summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_dataset ON analysis_runs(dataset);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON analysis_runs(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is the small digest stored next to every run for listings.
type RunSummary struct {
	Types     int `json:"types"`
	Genres    int `json:"genres"`
	Countries int `json:"countries"`
	YearMin   int `json:"year_min,omitempty"`
	YearMax   int `json:"year_max,omitempty"`
}

// NewRunSummary digests a report: distinct value counts per role and the
// year range.
func NewRunSummary(r *model.CatalogReport) RunSummary {
	s := RunSummary{
		Types:     r.Types.Len(),
		Genres:    r.Genres.Len(),
		Countries: r.Countries.Len(),
	}
	if yr := r.Years.Range(); yr != nil {
		s.YearMin = yr.Min
		s.YearMax = yr.Max
	}
	return s
}

// RunMetadata describes a stored run without its full report.
type RunMetadata struct {
	// ID is the row identifier in the database.
	ID int64

	// RunID is the report's run identifier.
	RunID string

	// Dataset is the dataset name (file stem).
	Dataset string

	// Path is the analyzed file path.
	Path string

	// Timestamp is when the analysis started.
	Timestamp time.Time

	// RowCount is the number of data rows.
	RowCount int

	// Summary digests the run.
	Summary RunSummary
}

// SaveRun stores a completed report. Runs are keyed by dataset name so the
// same file analyzed from different directories shares a history.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.CatalogReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	summaryJSON, err := json.Marshal(NewRunSummary(report))
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO analysis_runs (run_id, dataset, path, timestamp, row_count, report_json, summary)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		report.RunID,
		report.DatasetName(),
		report.Dataset,
		formatTimestamp(report.DateAnalyzed),
		report.RowCount,
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

// GetRunByID retrieves a stored report by its run ID.
func (hdb *HistoryDB) GetRunByID(ctx context.Context, runID string) (*model.CatalogReport, error) {
	query := `SELECT report_json FROM analysis_runs WHERE run_id = ?`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, runID).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return decodeReport(reportJSON)
}

// GetLatestRuns retrieves up to limit reports of dataset, newest first.
func (hdb *HistoryDB) GetLatestRuns(ctx context.Context, dataset string, limit int) ([]*model.CatalogReport, error) {
	query := `
	SELECT report_json FROM analysis_runs
	WHERE dataset = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, dataset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest runs: %w", err)
	}
	defer rows.Close()

	var reports []*model.CatalogReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		report, err := decodeReport(reportJSON)
		if err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// GetRunHistory retrieves every stored report of dataset, newest first.
func (hdb *HistoryDB) GetRunHistory(ctx context.Context, dataset string) ([]*model.CatalogReport, error) {
	return hdb.GetLatestRuns(ctx, dataset, -1)
}

// GetRunHistoryWithMetadata lists the runs of dataset without decoding the
// full reports, newest first.
func (hdb *HistoryDB) GetRunHistoryWithMetadata(ctx context.Context, dataset string) ([]RunMetadata, error) {
	query := `
	SELECT id, run_id, dataset, path, timestamp, row_count, summary
	FROM analysis_runs
	WHERE dataset = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.RunID, &meta.Dataset, &meta.Path, &timestamp, &meta.RowCount, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)

		if summaryJSON.Valid && summaryJSON.String != "" {
			// A malformed digest leaves the zero summary.
			_ = json.Unmarshal([]byte(summaryJSON.String), &meta.Summary) //nolint:errcheck
		}
		results = append(results, meta)
	}
	return results, rows.Err()
}

// ListDatasets returns the names of all datasets with stored runs.
func (hdb *HistoryDB) ListDatasets(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT dataset FROM analysis_runs ORDER BY dataset`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []string
	for rows.Next() {
		var dataset string
		if err := rows.Scan(&dataset); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, dataset)
	}
	return datasets, rows.Err()
}

// decodeReport parses a stored report.
func decodeReport(reportJSON string) (*model.CatalogReport, error) {
	var report model.CatalogReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// storedTimestampLayout sorts lexically in time order.
const storedTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTimestamp renders t in UTC with fixed-width nanoseconds.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimestampLayout)
}

// timestampFormats contains the timestamp formats a stored row may hold.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
