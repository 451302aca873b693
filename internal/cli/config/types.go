// Package config loads einlint CLI configuration.
//
// Sources are layered with koanf, lowest precedence first: built-in
// defaults, einlint.yaml, EINLINT_* environment variables, then flags that
// were set explicitly. The check section maps onto lint.Options.
package config

import (
	"time"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
)

// Config holds all CLI configuration options.
type Config struct {
	Check    lint.Options  `koanf:"check"`
	Module   string        `koanf:"module"`
	Output   string        `koanf:"output"`
	Verbose  bool          `koanf:"verbose"`
	LogLevel string        `koanf:"log_level"` // empty disables logging
	File     string        `koanf:"-"`         // config file used, if any
	Severity core.Severity `koanf:"severity"`
	Jobs     int           `koanf:"jobs"`
	Watch    WatchConfig   `koanf:"watch"`
}

// WatchConfig configures check --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultOutput   = "auto" // TTY=text, non-TTY=markdown
	DefaultSeverity = "warning"
	DefaultDebounce = 200 * time.Millisecond
)

// ConfigFileNames are searched in order.
var ConfigFileNames = []string{"einlint.yaml", "einlint.yml"}
