package lint

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/einlint/pkg/label"
)

// Options controls which checks run and how failures are reported.
type Options struct {
	// AlphaCheck enables AnalyzeStatic.
	AlphaCheck bool `json:"alpha" koanf:"alpha"`
	// Tolerance is the largest character-code distance treated as a rename.
	Tolerance int `json:"tol" koanf:"tol"`
	// SizeCheck asks front-ends to splice VerifyRuntime into evaluation.
	SizeCheck bool `json:"size" koanf:"size"`
	// ThrowOnError turns every mismatch into a returned *CheckError.
	ThrowOnError bool `json:"throw" koanf:"throw"`
	// NamedPolicy decides whether multi-character labels are compared.
	NamedPolicy label.NamedPolicy `json:"named" koanf:"named"`
	// BindWildcards makes wildcard dimensions claim one shared extent.
	BindWildcards bool `json:"wild" koanf:"wild"`
}

// DefaultTolerance is the tolerance of DefaultOptions.
const DefaultTolerance = 3

// DefaultOptions returns alpha checks on, tolerance 3, size checks off, no throwing.
func DefaultOptions() Options {
	return Options{
		AlphaCheck:   true,
		Tolerance:    DefaultTolerance,
		SizeCheck:    false,
		ThrowOnError: false,
		NamedPolicy:  label.NamedExempt,
	}
}

// Option names accepted by SetOption.
const (
	OptionAlpha = "alpha"
	OptionTol   = "tol"
	OptionSize  = "size"
	OptionThrow = "throw"
	OptionNamed = "named"
	OptionWild  = "wild"
)

// OptionNames lists the settable options in display order.
func OptionNames() []string {
	return []string{OptionAlpha, OptionTol, OptionSize, OptionThrow, OptionNamed, OptionWild}
}

// Get returns the value of a named option as a plain Go value.
func (o Options) Get(name string) (any, bool) {
	switch name {
	case OptionAlpha:
		return o.AlphaCheck, true
	case OptionTol:
		return o.Tolerance, true
	case OptionSize:
		return o.SizeCheck, true
	case OptionThrow:
		return o.ThrowOnError, true
	case OptionNamed:
		return o.NamedPolicy.String(), true
	case OptionWild:
		return o.BindWildcards, true
	default:
		return nil, false
	}
}

// coerceBool extracts a bool, accepting the string forms directives produce.
func coerceBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "on", "yes":
				return true, true
			case "off", "no":
				return false, true
			}
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// coerceInt extracts an int, handling float64 from JSON/YAML and int64 from Starlark.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// coerceNamedPolicy accepts a policy value or its name.
func coerceNamedPolicy(v any) (label.NamedPolicy, bool) {
	switch p := v.(type) {
	case label.NamedPolicy:
		return p, true
	case string:
		parsed, err := label.ParseNamedPolicy(p)
		if err != nil {
			return label.NamedExempt, false
		}
		return parsed, true
	default:
		return label.NamedExempt, false
	}
}
