// Package pipeline connects front-ends that extract tensor references to
// the checks in package lint.
//
// A front-end describes each contraction as an Expression: a result
// descriptor and its operand descriptors. Analyze runs the static check on
// every descriptor and returns a Plan. When size checks were enabled at
// analysis time, Plan.Execute wraps the evaluator call with runtime
// verification of every operand before it runs and of the result after.
package pipeline

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/label"
	"github.com/leapstack-labs/einlint/pkg/lint"
)

// Descriptor is one tensor reference as supplied by a front-end.
type Descriptor struct {
	Tensor   string        `json:"tensor" yaml:"tensor"`
	Labels   []string      `json:"labels" yaml:"labels"`
	Location core.Location `json:"location" yaml:"location,omitempty"`
}

// Reference parses the labels. A descriptor that cannot be parsed is a
// malformed reference.
func (d Descriptor) Reference() (lint.Reference, error) {
	seq, err := label.ParseSequence(d.Labels)
	if err != nil {
		return lint.Reference{}, fmt.Errorf("%w: %s: %w", lint.ErrMalformedReference, d.Tensor, err)
	}
	return lint.Reference{Tensor: d.Tensor, Labels: seq, Location: d.Location}, nil
}

// Expression is one tensor contraction: Result = f(Operands...).
type Expression struct {
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Result   Descriptor   `json:"result" yaml:"result"`
	Operands []Descriptor `json:"operands" yaml:"operands"`
}

// Evaluator performs the actual contraction. einlint never implements one;
// it only wraps them.
type Evaluator interface {
	Evaluate(ctx context.Context, expr Expression, operands []lint.Shaped) (lint.Shaped, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, expr Expression, operands []lint.Shaped) (lint.Shaped, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, expr Expression, operands []lint.Shaped) (lint.Shaped, error) {
	return f(ctx, expr, operands)
}

// Declared returns an evaluator that computes nothing and yields an array
// of the given shape. Front-ends that know every shape ahead of time use it
// to run the runtime checks without a real evaluator.
func Declared(shape []int) Evaluator {
	return EvaluatorFunc(func(context.Context, Expression, []lint.Shaped) (lint.Shaped, error) {
		return lint.Extents(shape), nil
	})
}
