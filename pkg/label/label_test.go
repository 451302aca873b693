package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/einlint/pkg/label"
)

func TestParse(t *testing.T) {
	tests := []struct {
		tok      string
		wantKind label.Kind
		wantStr  string
	}{
		{"i", label.KindAlpha, "i"},
		{"Z", label.KindAlpha, "Z"},
		{"α", label.KindAlpha, "α"},
		{"3", label.KindLiteral, "3"},
		{"-1", label.KindLiteral, "-1"},
		{"_", label.KindWildcard, "_"},
		{":", label.KindWildcard, "_"},
		{"row", label.KindNamed, "row"},
		{"i2", label.KindNamed, "i2"},
		{"k'", label.KindNamed, "k'"},
		{" j ", label.KindAlpha, "j"},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			l, err := label.Parse(tt.tok)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, l.Kind())
			assert.Equal(t, tt.wantStr, l.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, tok := range []string{"", "  ", "*", "+"} {
		_, err := label.Parse(tok)
		assert.ErrorIs(t, err, label.ErrInvalidLabel, "token %q", tok)
	}
}

func TestFromValue(t *testing.T) {
	l, err := label.FromValue(2)
	require.NoError(t, err)
	assert.Equal(t, label.Literal(2), l)

	l, err = label.FromValue(int64(7))
	require.NoError(t, err)
	assert.Equal(t, label.Literal(7), l)

	l, err = label.FromValue(float64(4))
	require.NoError(t, err)
	assert.Equal(t, label.Literal(4), l)

	_, err = label.FromValue(1.5)
	assert.ErrorIs(t, err, label.ErrInvalidLabel)

	_, err = label.FromValue([]int{1})
	assert.ErrorIs(t, err, label.ErrInvalidLabel)

	l, err = label.FromValue("k")
	require.NoError(t, err)
	assert.Equal(t, label.Alpha('k'), l)
}

func TestLabelsAreComparableKeys(t *testing.T) {
	m := map[label.Label]int{}
	m[label.Alpha('i')] = 2
	m[label.Named("row")] = 5

	assert.Equal(t, 2, m[label.MustParse("i")[0]])
	assert.Equal(t, 5, m[label.MustParse("row")[0]])
	assert.NotEqual(t, label.Alpha('i'), label.Named("i"))
}

func TestSequence(t *testing.T) {
	seq, err := label.ParseSequence([]string{"i", "j", "3", "_"})
	require.NoError(t, err)
	assert.Equal(t, "[i, j, 3, _]", seq.String())

	clone := seq.Clone()
	assert.True(t, seq.Equal(clone))
	clone[0] = label.Alpha('x')
	assert.False(t, seq.Equal(clone), "clone must not alias the original")

	_, err = label.ParseSequence([]string{"i", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 1")

	seq, err = label.SequenceFromValues([]any{"i", 2})
	require.NoError(t, err)
	assert.Equal(t, label.Sequence{label.Alpha('i'), label.Literal(2)}, seq)
}

func TestDrifts(t *testing.T) {
	tests := []struct {
		name   string
		next   string
		prev   string
		tol    int
		policy label.NamedPolicy
		want   bool
	}{
		{"adjacent letters", "k", "j", 3, label.NamedExempt, false},
		{"exact tolerance", "m", "j", 3, label.NamedExempt, false},
		{"beyond tolerance", "n", "j", 3, label.NamedExempt, true},
		{"z to a", "a", "z", 3, label.NamedExempt, true},
		{"zero tolerance", "j", "i", 0, label.NamedExempt, true},
		{"literal exempt", "3", "i", 0, label.NamedExempt, false},
		{"wildcard exempt", "_", "z", 0, label.NamedExempt, false},
		{"named exempt", "row", "col", 0, label.NamedExempt, false},
		{"alpha vs named exempt", "a", "zeta", 0, label.NamedLeading, false},
		{"named leading close", "row", "rows", 0, label.NamedLeading, false},
		{"named leading far", "abc", "xyz", 3, label.NamedLeading, true},
		{"named leading non-letter", "_a", "_z", 0, label.NamedLeading, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := label.MustParse(tt.next)[0]
			prev := label.MustParse(tt.prev)[0]
			assert.Equal(t, tt.want, label.Drifts(next, prev, tt.tol, tt.policy))
		})
	}
}

func TestNamedPolicy_Text(t *testing.T) {
	var p label.NamedPolicy
	require.NoError(t, p.UnmarshalText([]byte("leading")))
	assert.Equal(t, label.NamedLeading, p)

	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "leading", string(text))

	assert.Error(t, p.UnmarshalText([]byte("prefix")))
}
