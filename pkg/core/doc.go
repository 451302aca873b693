// Package core defines the shared language of einlint.
//
// This package contains:
//   - Diagnostic severities
//   - Source locations attached to diagnostics
//   - Kind metadata used by documentation and tooling
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
