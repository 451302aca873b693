package lint

import (
	"fmt"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/label"
)

// =============================================================================
// Diagnostic kinds
// =============================================================================

// Kind classifies a detected mismatch.
type Kind int

// Diagnostic kinds. MalformedReference is never policy-governed.
const (
	ArityMismatch Kind = iota + 1
	LabelDrift
	RankMismatch
	SizeMismatch
	UnrecognizedDirective
	MalformedReference
)

var kindNames = map[Kind]string{
	ArityMismatch:         "arity-mismatch",
	LabelDrift:            "label-drift",
	RankMismatch:          "rank-mismatch",
	SizeMismatch:          "size-mismatch",
	UnrecognizedDirective: "unrecognized-directive",
	MalformedReference:    "malformed-reference",
}

// String returns the kebab-case kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ID returns the stable diagnostic code, e.g. "EC01".
func (k Kind) ID() string {
	if k < ArityMismatch || k > MalformedReference {
		return ""
	}
	return fmt.Sprintf("EC%02d", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", string(text))
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a detected mismatch.
type Diagnostic struct {
	Kind     Kind          `json:"kind"`
	ID       string        `json:"id"`
	Severity core.Severity `json:"severity"`
	Message  string        `json:"message"`
	Location core.Location `json:"location"`

	Tensor      string `json:"tensor,omitempty"`      // tensor identity, static checks
	Description string `json:"description,omitempty"` // caller-supplied array description, runtime checks
	Position    int    `json:"position"`              // dimension index, -1 when not applicable

	// Label and Previous hold the new and recorded labels of a drift,
	// or the label of a size mismatch.
	Label    string `json:"label,omitempty"`
	Previous string `json:"previous,omitempty"`

	// Expected and Actual hold counts or extents for arity, rank and size mismatches.
	Expected int `json:"expected,omitempty"`
	Actual   int `json:"actual,omitempty"`
}

// String formats the diagnostic as "location: [ID] message".
func (d Diagnostic) String() string {
	if d.Location.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", d.Location, d.ID, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.ID, d.Message)
}

func newDiagnostic(kind Kind, loc core.Location, msg string) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		ID:       kind.ID(),
		Severity: core.SeverityError,
		Message:  msg,
		Location: loc,
		Position: -1,
	}
}

// =============================================================================
// References
// =============================================================================

// Reference is one use of a tensor as it appears in source.
type Reference struct {
	Tensor   string
	Labels   label.Sequence
	Location core.Location
}

// String renders the reference as A[i, j].
func (r Reference) String() string {
	return r.Tensor + r.Labels.String()
}

// Analysis is the result of AnalyzeStatic.
type Analysis struct {
	Reference Reference
	// VerifyAtRuntime asks the caller to wrap the evaluation of this
	// reference in VerifyRuntime. It mirrors Options.SizeCheck at analysis time.
	VerifyAtRuntime bool
	// Findings counts the diagnostics reported without aborting.
	Findings int
}

// Shaped is anything with a runtime shape, one extent per dimension.
type Shaped interface {
	Shape() []int
}

// Extents is a bare shape. It satisfies Shaped.
type Extents []int

// Shape returns the extents themselves.
func (e Extents) Shape() []int { return e }
