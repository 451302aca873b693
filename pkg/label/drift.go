package label

import (
	"fmt"
	"strings"
	"unicode"
)

// NamedPolicy selects how multi-character labels take part in the drift rule.
type NamedPolicy int

const (
	// NamedExempt skips every pair that involves a named label.
	NamedExempt NamedPolicy = iota
	// NamedLeading compares the leading letters of two named labels.
	NamedLeading
)

// String returns the policy name used in directives and config files.
func (p NamedPolicy) String() string {
	switch p {
	case NamedExempt:
		return "exempt"
	case NamedLeading:
		return "leading"
	default:
		return "unknown"
	}
}

// ParseNamedPolicy converts "exempt" or "leading" to a policy.
func ParseNamedPolicy(s string) (NamedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exempt", "":
		return NamedExempt, nil
	case "leading":
		return NamedLeading, nil
	default:
		return NamedExempt, fmt.Errorf("unknown named-label policy %q (want exempt or leading)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p NamedPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *NamedPolicy) UnmarshalText(text []byte) error {
	v, err := ParseNamedPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Comparable reports whether the drift rule applies to the pair at all.
// Literals and wildcards are always exempt, as is any pair of different kinds.
func Comparable(a, b Label, policy NamedPolicy) bool {
	switch {
	case a.kind == KindAlpha && b.kind == KindAlpha:
		return true
	case a.kind == KindNamed && b.kind == KindNamed && policy == NamedLeading:
		return unicode.IsLetter(a.Rune()) && unicode.IsLetter(b.Rune())
	default:
		return false
	}
}

// Distance returns the absolute difference between the character codes
// the drift rule compares. It is meaningful only when Comparable is true.
func Distance(a, b Label) int {
	d := int(a.Rune()) - int(b.Rune())
	if d < 0 {
		return -d
	}
	return d
}

// Drifts reports whether next has drifted too far from prev to be an
// intentional renaming.
func Drifts(next, prev Label, tolerance int, policy NamedPolicy) bool {
	if !Comparable(next, prev, policy) {
		return false
	}
	return Distance(next, prev) > tolerance
}
