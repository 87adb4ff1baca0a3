package codegen

import (
	"context"
	"log/slog"
)

// Severity classifies a diagnostic record.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one finding recorded while compiling a spec document.
type Diagnostic struct {
	Severity Severity
	Message  string
	Attrs    []slog.Attr
}

// Diagnostics collects skip-level findings during compilation and mirrors
// them to a slog.Logger. It is passed explicitly through every extraction
// call; fatal conditions are signalled as ordinary error returns instead.
type Diagnostics struct {
	logger  *slog.Logger
	records []Diagnostic
}

// NewDiagnostics returns a sink that forwards to logger, or to slog.Default
// when logger is nil.
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Diagnostics{logger: logger}
}

func (d *Diagnostics) Debug(msg string, attrs ...slog.Attr) {
	d.record(SeverityDebug, slog.LevelDebug, msg, attrs)
}

func (d *Diagnostics) Info(msg string, attrs ...slog.Attr) {
	d.record(SeverityInfo, slog.LevelInfo, msg, attrs)
}

func (d *Diagnostics) Warn(msg string, attrs ...slog.Attr) {
	d.record(SeverityWarn, slog.LevelWarn, msg, attrs)
}

func (d *Diagnostics) Error(msg string, attrs ...slog.Attr) {
	d.record(SeverityError, slog.LevelError, msg, attrs)
}

func (d *Diagnostics) record(sev Severity, lvl slog.Level, msg string, attrs []slog.Attr) {
	d.records = append(d.records, Diagnostic{Severity: sev, Message: msg, Attrs: attrs})
	d.logger.LogAttrs(context.Background(), lvl, msg, attrs...)
}

// Records returns every diagnostic collected so far, in emission order.
func (d *Diagnostics) Records() []Diagnostic {
	return d.records
}

// Count reports how many records of the given severity were collected.
func (d *Diagnostics) Count(sev Severity) int {
	n := 0
	for _, r := range d.records {
		if r.Severity == sev {
			n++
		}
	}
	return n
}
