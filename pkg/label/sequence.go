package label

import (
	"fmt"
	"strings"
)

// Sequence is an ordered list of labels, one per dimension.
type Sequence []Label

// ParseSequence parses every token; the first invalid token fails the whole sequence.
func ParseSequence(tokens []string) (Sequence, error) {
	seq := make(Sequence, len(tokens))
	for i, tok := range tokens {
		l, err := Parse(tok)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		seq[i] = l
	}
	return seq, nil
}

// MustParse is ParseSequence for literals in tests and examples. It panics on error.
func MustParse(tokens ...string) Sequence {
	seq, err := ParseSequence(tokens)
	if err != nil {
		panic(err)
	}
	return seq
}

// SequenceFromValues is the FromValue counterpart of ParseSequence.
func SequenceFromValues(values []any) (Sequence, error) {
	seq := make(Sequence, len(values))
	for i, v := range values {
		l, err := FromValue(v)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		seq[i] = l
	}
	return seq, nil
}

// Clone returns an independent copy.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sequences hold the same labels in the same order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the sequence as [i, j, k].
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
