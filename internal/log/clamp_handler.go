package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/mattn/go-runewidth"
)

// DefaultMaxValueWidth is the display width string values are clamped to.
const DefaultMaxValueWidth = 120

// ellipsis marks a clamped value.
const ellipsis = "..."

// ClampHandler wraps an slog.Handler and shortens string attribute values
// wider than a fixed display width. Groups are handled recursively.
type ClampHandler struct {
	// handler is the underlying slog handler that receives clamped records.
	handler slog.Handler

	// width is the maximum display width of a string value.
	width int
}

// NewClampHandler creates a ClampHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used. A non-positive width
// selects DefaultMaxValueWidth.
func NewClampHandler(handler slog.Handler, width int) *ClampHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if width <= 0 {
		width = DefaultMaxValueWidth
	}
	return &ClampHandler{handler: handler, width: width}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *ClampHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle clamps the record's attributes and passes it to the underlying handler.
func (h *ClampHandler) Handle(ctx context.Context, r slog.Record) error {
	clamped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clamped.AddAttrs(h.clampAttr(a))
		return true
	})
	return h.handler.Handle(ctx, clamped)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are clamped before being added.
func (h *ClampHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clamped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clamped[i] = h.clampAttr(a)
	}
	return &ClampHandler{handler: h.handler.WithAttrs(clamped), width: h.width}
}

// WithGroup returns a new handler with the given group name.
func (h *ClampHandler) WithGroup(name string) slog.Handler {
	return &ClampHandler{handler: h.handler.WithGroup(name), width: h.width}
}

// clampAttr clamps a single attribute, recursively handling groups.
func (h *ClampHandler) clampAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		clamped := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			clamped[i] = h.clampAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clamped...)}
	case slog.KindString:
		return slog.String(a.Key, Clamp(a.Value.String(), h.width))
	default:
		return a
	}
}

// Clamp shortens s to at most width display columns, marking the cut with "...".
func Clamp(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// newLevel returns Debug when verbose and Warn otherwise.
func newLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text slog.Logger whose string values are clamped.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: newLevel(verbose)}
	return slog.New(NewClampHandler(slog.NewTextHandler(w, opts), DefaultMaxValueWidth))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
