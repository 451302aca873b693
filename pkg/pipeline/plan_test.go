package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/einlint/internal/testutil"
	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/leapstack-labs/einlint/pkg/pipeline"
)

func matmul(a, b, c string) pipeline.Expression {
	return pipeline.Expression{
		Name:   "matmul",
		Result: pipeline.Descriptor{Tensor: c, Labels: []string{"i", "k"}},
		Operands: []pipeline.Descriptor{
			{Tensor: a, Labels: []string{"i", "j"}},
			{Tensor: b, Labels: []string{"j", "k"}},
		},
	}
}

func sizeChecker(t *testing.T) *lint.Checker {
	t.Helper()
	opts := lint.DefaultOptions()
	opts.SizeCheck = true
	return lint.New(lint.WithOptions(opts), lint.WithLogger(testutil.NewTestLogger(t)))
}

func TestAnalyze_RecordsEveryDescriptor(t *testing.T) {
	c := lint.New(lint.WithLogger(testutil.NewTestLogger(t)))

	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)
	assert.Zero(t, p.Findings())
	assert.False(t, p.VerifiesAtRuntime())
	assert.Equal(t, []string{"A", "B", "C"}, c.Info().Tensors())
}

func TestAnalyze_ReportsDrift(t *testing.T) {
	c := lint.New()
	_, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	expr := matmul("A", "B", "D")
	expr.Operands[0].Labels = []string{"i", "z"}
	p, err := pipeline.Analyze(c, expr)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Findings())
}

func TestAnalyze_MalformedLabel(t *testing.T) {
	c := lint.New()
	expr := matmul("A", "B", "C")
	expr.Operands[1].Labels = []string{"j", "*"}

	_, err := pipeline.Analyze(c, expr)
	require.Error(t, err)
	assert.ErrorIs(t, err, lint.ErrMalformedReference)
}

func TestAnalyze_ThrowAborts(t *testing.T) {
	opts := lint.DefaultOptions()
	opts.ThrowOnError = true
	c := lint.New(lint.WithOptions(opts))
	_, _ = pipeline.Analyze(c, matmul("A", "B", "C"))

	expr := matmul("A", "B", "C")
	expr.Result.Labels = []string{"i"}
	_, err := pipeline.Analyze(c, expr)
	assert.ErrorIs(t, err, lint.ErrArityMismatch)
}

func TestExecute_VerifiesOperandsAndResult(t *testing.T) {
	c := sizeChecker(t)
	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)
	require.True(t, p.VerifiesAtRuntime())

	out, err := p.Execute(context.Background(), pipeline.Declared([]int{2, 4}),
		lint.Extents{2, 3}, lint.Extents{3, 4})
	require.NoError(t, err)
	assert.Equal(t, lint.Extents{2, 4}, out)
	assert.Empty(t, c.Diagnostics())

	info := c.Info()
	assert.Len(t, info.Sizes, 3)
}

func TestExecute_SizeMismatchKeepsResult(t *testing.T) {
	c := sizeChecker(t)
	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	out, err := p.Execute(context.Background(), pipeline.Declared([]int{2, 4}),
		lint.Extents{2, 3}, lint.Extents{5, 4})
	require.NoError(t, err)
	assert.Equal(t, lint.Extents{2, 4}, out, "the evaluator output stays usable")

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SizeMismatch, diags[0].Kind)
	assert.Equal(t, "j", diags[0].Label)
	assert.Contains(t, diags[0].Description, "operand 2 (B[j, k]) of matmul")
}

func TestExecute_ResultChecked(t *testing.T) {
	opts := lint.DefaultOptions()
	opts.SizeCheck = true
	opts.ThrowOnError = true
	c := lint.New(lint.WithOptions(opts))

	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	out, err := p.Execute(context.Background(), pipeline.Declared([]int{2, 9}),
		lint.Extents{2, 3}, lint.Extents{3, 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, lint.ErrSizeMismatch)
	assert.Equal(t, lint.Extents{2, 9}, out)
}

func TestExecute_NoRuntimeWhenSizeOffAtAnalysis(t *testing.T) {
	c := lint.New()
	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	require.NoError(t, c.SetOption("size", true))
	_, err = p.Execute(context.Background(), pipeline.Declared([]int{1, 1}),
		lint.Extents{2, 3}, lint.Extents{5, 4})
	require.NoError(t, err)
	assert.Empty(t, c.Info().Sizes, "the plan decided at analysis time")
}

func TestExecute_OperandCount(t *testing.T) {
	c := sizeChecker(t)
	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	_, err = p.Execute(context.Background(), pipeline.Declared(nil), lint.Extents{2, 3})
	assert.ErrorIs(t, err, lint.ErrMalformedReference)
}

type tensor struct{ dims []int }

func (t *tensor) Shape() []int { return t.dims }

func TestExecute_TypedNilOperand(t *testing.T) {
	c := sizeChecker(t)
	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	var b *tensor
	called := false
	ev := pipeline.EvaluatorFunc(func(context.Context, pipeline.Expression, []lint.Shaped) (lint.Shaped, error) {
		called = true
		return lint.Extents{2, 4}, nil
	})
	require.NotPanics(t, func() {
		_, err = p.Execute(context.Background(), ev, &tensor{dims: []int{2, 3}}, b)
	})
	assert.ErrorIs(t, err, lint.ErrMalformedReference)
	assert.False(t, called, "a missing operand stops before evaluation")
	assert.Empty(t, c.Diagnostics())
}

func TestExecute_EvaluatorError(t *testing.T) {
	c := sizeChecker(t)
	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	boom := errors.New("boom")
	ev := pipeline.EvaluatorFunc(func(context.Context, pipeline.Expression, []lint.Shaped) (lint.Shaped, error) {
		return nil, boom
	})
	_, err = p.Execute(context.Background(), ev, lint.Extents{2, 3}, lint.Extents{3, 4})
	assert.ErrorIs(t, err, boom)
}

func TestExecute_Cancelled(t *testing.T) {
	c := sizeChecker(t)
	p, err := pipeline.Analyze(c, matmul("A", "B", "C"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Execute(ctx, pipeline.Declared([]int{2, 4}), lint.Extents{2, 3}, lint.Extents{3, 4})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDescriptor_LocationFlowsToDiagnostics(t *testing.T) {
	logger, rec := testutil.NewRecorder()
	c := lint.New(lint.WithLogger(logger))
	loc := core.Location{Module: "nn", File: "layer.yaml", Line: 4}

	_, _ = pipeline.Analyze(c, matmul("A", "B", "C"))
	expr := matmul("A", "B", "C")
	expr.Result.Labels = []string{"i", "k", "l"}
	expr.Result.Location = loc
	_, err := pipeline.Analyze(c, expr)
	require.NoError(t, err)

	errs := rec.Records(slog.LevelError)
	require.Len(t, errs, 1)
	assert.Equal(t, "layer.yaml", errs[0].Attrs["file"])
	assert.Equal(t, "C", errs[0].Attrs["tensor"])
}
