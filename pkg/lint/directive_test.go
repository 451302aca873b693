package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/einlint/pkg/label"
	"github.com/leapstack-labs/einlint/pkg/lint"
)

func TestDefaultOptions(t *testing.T) {
	opts := lint.DefaultOptions()
	assert.True(t, opts.AlphaCheck)
	assert.Equal(t, 3, opts.Tolerance)
	assert.False(t, opts.SizeCheck)
	assert.False(t, opts.ThrowOnError)
	assert.Equal(t, label.NamedExempt, opts.NamedPolicy)
	assert.False(t, opts.BindWildcards)
}

func TestSetOption(t *testing.T) {
	tests := []struct {
		name  string
		value any
		check func(t *testing.T, o lint.Options)
	}{
		{"alpha", false, func(t *testing.T, o lint.Options) { assert.False(t, o.AlphaCheck) }},
		{"alpha", "off", func(t *testing.T, o lint.Options) { assert.False(t, o.AlphaCheck) }},
		{"tol", 5, func(t *testing.T, o lint.Options) { assert.Equal(t, 5, o.Tolerance) }},
		{"tol", int64(7), func(t *testing.T, o lint.Options) { assert.Equal(t, 7, o.Tolerance) }},
		{"tol", float64(2), func(t *testing.T, o lint.Options) { assert.Equal(t, 2, o.Tolerance) }},
		{"tol", "0", func(t *testing.T, o lint.Options) { assert.Equal(t, 0, o.Tolerance) }},
		{"size", true, func(t *testing.T, o lint.Options) { assert.True(t, o.SizeCheck) }},
		{"throw", "true", func(t *testing.T, o lint.Options) { assert.True(t, o.ThrowOnError) }},
		{"named", "leading", func(t *testing.T, o lint.Options) { assert.Equal(t, label.NamedLeading, o.NamedPolicy) }},
		{"wild", "on", func(t *testing.T, o lint.Options) { assert.True(t, o.BindWildcards) }},
		{"TOL", 9, func(t *testing.T, o lint.Options) { assert.Equal(t, 9, o.Tolerance) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChecker(t)
			require.NoError(t, c.SetOption(tt.name, tt.value))
			tt.check(t, c.Options())
			assert.Empty(t, c.Diagnostics())
		})
	}
}

func TestSetOption_InvalidValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"alpha", "maybe"},
		{"tol", "three"},
		{"tol", -1},
		{"tol", 2.5},
		{"size", 1},
		{"named", "prefix"},
		{"wild", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChecker(t)
			before := c.Options()
			err := c.SetOption(tt.name, tt.value)
			assert.ErrorIs(t, err, lint.ErrInvalidDirectiveValue)
			assert.Equal(t, before, c.Options(), "invalid values leave options unchanged")
		})
	}
}

func TestSetOption_Unrecognized(t *testing.T) {
	c := newChecker(t)
	require.NoError(t, c.SetOption("tolerance", 5))

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, lint.UnrecognizedDirective, diags[0].Kind)
	assert.Contains(t, diags[0].Message, `"tolerance"`)

	require.NoError(t, c.SetOption("throw", true))
	err := c.SetOption("tolerance", 5)
	assert.ErrorIs(t, err, lint.ErrUnrecognizedDirective)
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		value    any
		hasValue bool
	}{
		{"tol=5", "tol", "5", true},
		{"tol = 5", "tol", "5", true},
		{"size true", "size", "true", true},
		{"info", "info", nil, false},
		{"  EMPTY ", "empty", nil, false},
		{"alpha=", "alpha", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := lint.ParseDirective(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.value, d.Value)
			assert.Equal(t, tt.hasValue, d.HasValue)
		})
	}

	_, err := lint.ParseDirective("   ")
	assert.ErrorIs(t, err, lint.ErrUnrecognizedDirective)
}

func TestApply(t *testing.T) {
	c := newChecker(t)

	for _, s := range []string{"tol=6", "size=on"} {
		d, err := lint.ParseDirective(s)
		require.NoError(t, err)
		info, err := c.Apply(d)
		require.NoError(t, err)
		assert.Nil(t, info)
	}
	assert.Equal(t, 6, c.Options().Tolerance)
	assert.True(t, c.Options().SizeCheck)

	_, err := c.AnalyzeStatic(ref("A", "i", "j"))
	require.NoError(t, err)

	info, err := c.Apply(lint.Directive{Name: "info"})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 6, info.Options.Tolerance)
	assert.Equal(t, []string{"A"}, info.Tensors())

	_, err = c.Apply(lint.Directive{Name: "empty"})
	require.NoError(t, err)
	assert.Zero(t, c.Labels().Len())
	assert.Equal(t, 6, c.Options().Tolerance, "empty never touches options")

	_, err = c.Apply(lint.Directive{Name: "tol"})
	assert.ErrorIs(t, err, lint.ErrInvalidDirectiveValue)

	_, err = c.Apply(lint.Directive{Name: "verbose"})
	require.NoError(t, err)
	assert.Len(t, c.Diagnostics(), 1)
}
