package lint

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/einlint/pkg/core"
)

// Sink receives diagnostics that were reported without aborting.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector is a Sink that keeps every diagnostic in arrival order.
// It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Take returns the collected diagnostics and empties the collector.
func (c *Collector) Take() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.diags
	c.diags = nil
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// FilterBySeverity returns the diagnostics at least as severe as minimum.
func FilterBySeverity(diags []Diagnostic, minimum core.Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Severity.AtLeast(minimum) {
			out = append(out, d)
		}
	}
	return out
}

// Reporter applies the throw/log policy to every detected mismatch.
type Reporter struct {
	logger *slog.Logger
	sinks  []Sink
}

// NewReporter creates a reporter. A nil logger discards log output.
func NewReporter(logger *slog.Logger, sinks ...Sink) *Reporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reporter{logger: logger, sinks: sinks}
}

// Report returns a *CheckError when throw is set. Otherwise it logs d at
// error level, hands it to every sink and returns nil.
func (r *Reporter) Report(throw bool, d Diagnostic) error {
	if throw {
		return &CheckError{Diagnostic: d}
	}

	attrs := []slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.String("id", d.ID),
	}
	if d.Tensor != "" {
		attrs = append(attrs, slog.String("tensor", d.Tensor))
	}
	if d.Description != "" {
		attrs = append(attrs, slog.String("description", d.Description))
	}
	if d.Location.Module != "" {
		attrs = append(attrs, slog.String("module", d.Location.Module))
	}
	if d.Location.File != "" {
		attrs = append(attrs, slog.String("file", d.Location.File))
	}
	if d.Location.Line > 0 {
		attrs = append(attrs, slog.Int("line", d.Location.Line))
	}
	r.logger.LogAttrs(context.Background(), slog.LevelError, d.Message, attrs...)

	for _, s := range r.sinks {
		s.Report(d)
	}
	return nil
}
