package output

import "github.com/leapstack-labs/einlint/pkg/lint"

// CheckSummary counts a check run.
type CheckSummary struct {
	Files       int `json:"files"`
	Expressions int `json:"expressions"`
	Verified    int `json:"verified"`
	Diagnostics int `json:"diagnostics"`
	Failed      int `json:"failed"` // files that stopped with an error
}

// CheckFileResult is the outcome of one checked file.
type CheckFileResult struct {
	Path        string            `json:"path"`
	Expressions int               `json:"expressions"`
	Verified    int               `json:"verified"`
	Error       string            `json:"error,omitempty"`
	Diagnostics []lint.Diagnostic `json:"diagnostics,omitempty"`
}

// CheckOutput is the JSON form of check.
type CheckOutput struct {
	RunID   string            `json:"run_id"`
	Summary CheckSummary      `json:"summary"`
	Files   []CheckFileResult `json:"files"`
	State   *lint.Info        `json:"state,omitempty"`
}
