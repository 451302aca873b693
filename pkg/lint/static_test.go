package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/einlint/internal/testutil"
	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/label"
	"github.com/leapstack-labs/einlint/pkg/lint"
)

func ref(tensor string, labels ...string) lint.Reference {
	return lint.Reference{Tensor: tensor, Labels: label.MustParse(labels...)}
}

func newChecker(t *testing.T, opts ...lint.CheckerOption) *lint.Checker {
	t.Helper()
	return lint.New(append([]lint.CheckerOption{lint.WithLogger(testutil.NewTestLogger(t))}, opts...)...)
}

func TestAnalyzeStatic_FirstUseRecordsLabels(t *testing.T) {
	c := newChecker(t)

	a, err := c.AnalyzeStatic(ref("A", "i", "j", "3", "_"))
	require.NoError(t, err)
	assert.Zero(t, a.Findings)
	assert.Empty(t, c.Diagnostics())

	stored, ok := c.Labels().Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "[i, j, 3, _]", stored.String())
}

func TestAnalyzeStatic_Arity(t *testing.T) {
	tests := []struct {
		name      string
		labels    []string
		direction string
	}{
		{"more indices", []string{"i", "j", "k"}, "more"},
		{"fewer indices", []string{"i"}, "fewer"},
		{"no indices", nil, "fewer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChecker(t)
			_, err := c.AnalyzeStatic(ref("A", "i", "j"))
			require.NoError(t, err)

			a, err := c.AnalyzeStatic(ref("A", tt.labels...))
			require.NoError(t, err)
			assert.Equal(t, 1, a.Findings)

			diags := c.Diagnostics()
			require.Len(t, diags, 1)
			assert.Equal(t, lint.ArityMismatch, diags[0].Kind)
			assert.Equal(t, "EC01", diags[0].ID)
			assert.Equal(t, 2, diags[0].Expected)
			assert.Equal(t, len(tt.labels), diags[0].Actual)
			assert.Contains(t, diags[0].Message, tt.direction)

			stored, _ := c.Labels().Lookup("A")
			assert.Equal(t, "[i, j]", stored.String(), "failed comparison must not mutate the store")
		})
	}
}

func TestAnalyzeStatic_DriftTolerance(t *testing.T) {
	t.Run("adjacent letter is a rename", func(t *testing.T) {
		c := newChecker(t)
		_, err := c.AnalyzeStatic(ref("A", "i", "j"))
		require.NoError(t, err)
		_, err = c.AnalyzeStatic(ref("A", "i", "k"))
		require.NoError(t, err)
		assert.Empty(t, c.Diagnostics())
	})

	t.Run("z to a drifts", func(t *testing.T) {
		c := newChecker(t)
		_, err := c.AnalyzeStatic(ref("A", "i", "z"))
		require.NoError(t, err)
		_, err = c.AnalyzeStatic(ref("A", "i", "a"))
		require.NoError(t, err)

		diags := c.Diagnostics()
		require.Len(t, diags, 1)
		d := diags[0]
		assert.Equal(t, lint.LabelDrift, d.Kind)
		assert.Equal(t, 1, d.Position)
		assert.Equal(t, "a", d.Label)
		assert.Equal(t, "z", d.Previous)
		assert.Equal(t, core.SeverityError, d.Severity)
		assert.Contains(t, d.Message, "distance 25")
	})

	t.Run("tolerance option widens the window", func(t *testing.T) {
		c := newChecker(t, lint.WithOptions(lint.Options{AlphaCheck: true, Tolerance: 25}))
		_, _ = c.AnalyzeStatic(ref("A", "z"))
		_, err := c.AnalyzeStatic(ref("A", "a"))
		require.NoError(t, err)
		assert.Empty(t, c.Diagnostics())
	})
}

func TestAnalyzeStatic_ReportsEveryPosition(t *testing.T) {
	c := newChecker(t)
	_, _ = c.AnalyzeStatic(ref("T", "a", "b", "c"))

	a, err := c.AnalyzeStatic(ref("T", "z", "b", "y"))
	require.NoError(t, err)
	assert.Equal(t, 2, a.Findings)

	diags := c.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, 0, diags[0].Position)
	assert.Equal(t, 2, diags[1].Position)
}

func TestAnalyzeStatic_ExemptLabels(t *testing.T) {
	c := newChecker(t)
	_, _ = c.AnalyzeStatic(ref("A", "a", "1", "_", "row"))

	_, err := c.AnalyzeStatic(ref("A", "9", "z", "z", "col"))
	require.NoError(t, err)
	assert.Empty(t, c.Diagnostics(), "literal, wildcard and named labels are exempt")
}

func TestAnalyzeStatic_NamedLeadingPolicy(t *testing.T) {
	opts := lint.DefaultOptions()
	opts.NamedPolicy = label.NamedLeading
	c := newChecker(t, lint.WithOptions(opts))

	_, _ = c.AnalyzeStatic(ref("A", "row", "batch"))
	_, err := c.AnalyzeStatic(ref("A", "rows", "xbatch"))
	require.NoError(t, err)

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Position)
	assert.Equal(t, "xbatch", diags[0].Label)
}

func TestAnalyzeStatic_Idempotent(t *testing.T) {
	c := newChecker(t)
	r := ref("A", "i", "j")

	for range 3 {
		a, err := c.AnalyzeStatic(r)
		require.NoError(t, err)
		assert.Zero(t, a.Findings)
	}
	assert.Empty(t, c.Diagnostics())
	assert.Equal(t, 1, c.Labels().Len())
}

func TestAnalyzeStatic_EmptyRestoresFirstUse(t *testing.T) {
	c := newChecker(t)
	_, _ = c.AnalyzeStatic(ref("A", "i", "z"))
	_, _ = c.AnalyzeStatic(ref("A", "i", "a"))
	require.Len(t, c.TakeDiagnostics(), 1)

	c.Empty()

	_, _ = c.AnalyzeStatic(ref("A", "i", "z"))
	_, err := c.AnalyzeStatic(ref("A", "i", "z"))
	require.NoError(t, err)
	assert.Empty(t, c.Diagnostics())

	c.Empty()
	_, err = c.AnalyzeStatic(ref("A", "i", "a"))
	require.NoError(t, err)
	assert.Empty(t, c.Diagnostics(), "after empty the previously failing call is a first use")
}

func TestAnalyzeStatic_AlphaDisabled(t *testing.T) {
	opts := lint.DefaultOptions()
	opts.AlphaCheck = false
	opts.SizeCheck = true
	c := newChecker(t, lint.WithOptions(opts))

	a, err := c.AnalyzeStatic(ref("A", "i"))
	require.NoError(t, err)
	assert.True(t, a.VerifyAtRuntime)
	assert.Zero(t, c.Labels().Len(), "disabled checks never touch the store")
}

func TestAnalyzeStatic_Throw(t *testing.T) {
	opts := lint.DefaultOptions()
	opts.ThrowOnError = true
	c := newChecker(t, lint.WithOptions(opts))

	_, _ = c.AnalyzeStatic(ref("T", "a", "b", "c"))
	a, err := c.AnalyzeStatic(ref("T", "z", "b", "y"))
	require.Error(t, err)
	assert.ErrorIs(t, err, lint.ErrLabelDrift)
	assert.Equal(t, 1, a.Findings, "throw aborts at the first mismatch")

	var checkErr *lint.CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Equal(t, 0, checkErr.Diagnostic.Position)
	assert.Empty(t, c.Diagnostics(), "thrown mismatches are not collected")

	_, err = c.AnalyzeStatic(ref("T", "a"))
	assert.ErrorIs(t, err, lint.ErrArityMismatch)
}

func TestAnalyzeStatic_Malformed(t *testing.T) {
	c := newChecker(t)
	_, err := c.AnalyzeStatic(ref("", "i"))
	assert.ErrorIs(t, err, lint.ErrMalformedReference)
	assert.Zero(t, c.Labels().Len())
}

func TestAnalyzeStatic_Location(t *testing.T) {
	c := newChecker(t)
	loc := core.Location{Module: "linalg", File: "matmul.yaml", Line: 7}

	_, _ = c.AnalyzeStatic(ref("A", "i"))
	r := ref("A", "i", "j")
	r.Location = loc
	_, err := c.AnalyzeStatic(r)
	require.NoError(t, err)

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, loc, diags[0].Location)
	assert.Contains(t, diags[0].String(), "matmul.yaml:7")
}
