package lint

import (
	"log/slog"
	"sync"
)

// Checker is the context object shared by every check: options, both
// stores and the reporter. Share one instance by reference; all methods
// are safe for concurrent use.
type Checker struct {
	mu   sync.RWMutex
	opts Options

	labels *LabelStore
	sizes  *SizeStore

	logger    *slog.Logger
	sinks     []Sink
	collector *Collector
	reporter  *Reporter
}

// CheckerOption configures a Checker at construction.
type CheckerOption func(*Checker)

// WithOptions sets the initial options.
func WithOptions(opts Options) CheckerOption {
	return func(c *Checker) { c.opts = opts }
}

// WithLogger sets the structured logger. Non-fatal diagnostics are logged
// through it at error level.
func WithLogger(logger *slog.Logger) CheckerOption {
	return func(c *Checker) { c.logger = logger }
}

// WithSink adds a sink for non-fatal diagnostics.
func WithSink(s Sink) CheckerOption {
	return func(c *Checker) { c.sinks = append(c.sinks, s) }
}

// New creates a Checker with DefaultOptions and empty stores.
func New(options ...CheckerOption) *Checker {
	c := &Checker{
		opts:      DefaultOptions(),
		labels:    NewLabelStore(),
		sizes:     NewSizeStore(),
		collector: NewCollector(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	sinks := append([]Sink{c.collector}, c.sinks...)
	c.reporter = NewReporter(c.logger, sinks...)
	return c
}

// Options returns a snapshot of the current options.
func (c *Checker) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// SetOptions replaces all options at once.
func (c *Checker) SetOptions(opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
}

// Labels returns the label store.
func (c *Checker) Labels() *LabelStore { return c.labels }

// Sizes returns the size store.
func (c *Checker) Sizes() *SizeStore { return c.sizes }

// Logger returns the checker's logger.
func (c *Checker) Logger() *slog.Logger { return c.logger }

// Diagnostics returns every non-fatal diagnostic reported so far.
func (c *Checker) Diagnostics() []Diagnostic {
	return c.collector.Diagnostics()
}

// TakeDiagnostics returns the non-fatal diagnostics reported so far and forgets them.
func (c *Checker) TakeDiagnostics() []Diagnostic {
	return c.collector.Take()
}

// Empty clears both stores. Options and collected diagnostics are kept.
func (c *Checker) Empty() {
	c.labels.Reset()
	c.sizes.Reset()
	c.logger.Debug("stores emptied")
}

func (c *Checker) report(opts Options, d Diagnostic) error {
	return c.reporter.Report(opts.ThrowOnError, d)
}
