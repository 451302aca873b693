// Package label defines index labels and the letter-drift rule used to compare them.
//
// A label names one dimension of a tensor reference. Four kinds exist:
//
//	i, j, α      Alpha    a single letter
//	3, -1        Literal  an integer literal fixing the index
//	_, :         Wildcard a dimension that is ignored
//	row, i2, k'  Named    any other multi-character name
//
// Only Alpha pairs take part in the drift heuristic by default. Named pairs
// can opt in through NamedLeading, which compares their leading letters.
package label

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind discriminates the label variants.
type Kind uint8

// Label kinds.
const (
	KindAlpha Kind = iota
	KindLiteral
	KindWildcard
	KindNamed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAlpha:
		return "alpha"
	case KindLiteral:
		return "literal"
	case KindWildcard:
		return "wildcard"
	case KindNamed:
		return "named"
	default:
		return "unknown"
	}
}

// ErrInvalidLabel is returned when a token cannot be classified as a label.
var ErrInvalidLabel = errors.New("invalid index label")

// Label is a comparable tagged value; it can be used as a map key.
type Label struct {
	kind Kind
	char rune
	lit  int
	name string
}

// Alpha returns a single-letter label.
func Alpha(r rune) Label { return Label{kind: KindAlpha, char: r} }

// Literal returns an integer literal label.
func Literal(n int) Label { return Label{kind: KindLiteral, lit: n} }

// Wildcard returns the ignore marker.
func Wildcard() Label { return Label{kind: KindWildcard} }

// Named returns a multi-character label.
func Named(s string) Label { return Label{kind: KindNamed, name: s} }

// Kind returns the label variant.
func (l Label) Kind() Kind { return l.kind }

// Rune returns the letter of an Alpha label, or the leading rune of a Named one.
func (l Label) Rune() rune {
	switch l.kind {
	case KindAlpha:
		return l.char
	case KindNamed:
		r, _ := utf8.DecodeRuneInString(l.name)
		return r
	default:
		return utf8.RuneError
	}
}

// Int returns the value of a Literal label.
func (l Label) Int() int { return l.lit }

// String renders the label the way it is written in source.
func (l Label) String() string {
	switch l.kind {
	case KindAlpha:
		return string(l.char)
	case KindLiteral:
		return strconv.Itoa(l.lit)
	case KindWildcard:
		return "_"
	default:
		return l.name
	}
}

// Parse classifies a raw label token.
func Parse(tok string) (Label, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Label{}, fmt.Errorf("%w: empty token", ErrInvalidLabel)
	}
	if tok == "_" || tok == ":" {
		return Wildcard(), nil
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return Literal(n), nil
	}
	r, size := utf8.DecodeRuneInString(tok)
	if size == len(tok) {
		if !unicode.IsLetter(r) {
			return Label{}, fmt.Errorf("%w: %q", ErrInvalidLabel, tok)
		}
		return Alpha(r), nil
	}
	return Named(tok), nil
}

// FromValue classifies a decoded value: integers become literals,
// strings are parsed with Parse.
func FromValue(v any) (Label, error) {
	switch val := v.(type) {
	case Label:
		return val, nil
	case string:
		return Parse(val)
	case int:
		return Literal(val), nil
	case int64:
		return Literal(int(val)), nil
	case float64:
		if val != float64(int(val)) {
			return Label{}, fmt.Errorf("%w: non-integer literal %v", ErrInvalidLabel, val)
		}
		return Literal(int(val)), nil
	default:
		return Label{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidLabel, v)
	}
}

// MarshalText implements encoding.TextMarshaler so labels serialize as
// their source form, including as JSON object keys.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
