package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/nao1215/catalogscan/internal/model"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// options configures Load.
type options struct {
	delimiter rune
}

// Option configures Load.
type Option func(*options)

// WithDelimiter forces the field delimiter. Zero keeps auto-detection.
func WithDelimiter(d rune) Option {
	return func(o *options) {
		o.delimiter = d
	}
}

// Load parses the delimited file at path into a Table.
// The delimiter is detected from the file name unless WithDelimiter is given.
// All errors are returned as *LoadError.
func Load(path string, opts ...Option) (*model.Table, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.delimiter == 0 {
		o.delimiter = DetectDelimiter(path)
	}

	rc, err := open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer rc.Close()

	table, err := Read(rc, o.delimiter)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return table, nil
}

// Read parses delimited text from r into a Table.
func Read(r io.Reader, delimiter rune) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		columns[i] = strings.TrimSpace(h)
	}

	var rows []model.Record
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(columns) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w (got %d, want %d)", line, ErrTooManyFields, len(rec), len(columns))
		}
		rows = append(rows, model.Record{Fields: rec})
	}

	return model.NewTable(columns, rows), nil
}

// DetectDelimiter picks the field delimiter from the file name.
// Tab-separated extensions (.tsv, .tab) select a tab; everything else a comma.
func DetectDelimiter(path string) rune {
	name := strings.ToLower(stripCompression(path))
	if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tab") {
		return '\t'
	}
	return ','
}

// compression identifies a supported compression format.
type compression int

const (
	compressionNone compression = iota
	compressionGzip
	compressionZstd
)

// detectCompression returns the compression implied by the file extension.
func detectCompression(path string) compression {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".gz"):
		return compressionGzip
	case strings.HasSuffix(name, ".zst"), strings.HasSuffix(name, ".zstd"):
		return compressionZstd
	default:
		return compressionNone
	}
}

// stripCompression removes a compression extension from path.
func stripCompression(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{".gz", ".zstd", ".zst"} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// open opens path and wraps it in a decompressor when needed.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		return nil, err
	}

	switch detectCompression(path) {
	case compressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return &stackedReadCloser{Reader: gz, closers: []func() error{gz.Close, f.Close}}, nil
	case compressionZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		closeDecoder := func() error {
			dec.Close()
			return nil
		}
		return &stackedReadCloser{Reader: dec, closers: []func() error{closeDecoder, f.Close}}, nil
	default:
		return f, nil
	}
}

// stackedReadCloser reads from a decompressor and closes it together with
// the underlying file.
type stackedReadCloser struct {
	io.Reader
	closers []func() error
}

// Close closes every layer and returns the first error.
func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
