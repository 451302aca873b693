package pipeline

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/einlint/pkg/lint"
)

// Plan is the analysis of one expression, ready to execute.
type Plan struct {
	checker  *lint.Checker
	expr     Expression
	result   lint.Analysis
	operands []lint.Analysis
}

// Analyze runs the static check on the result descriptor and then on every
// operand, in source order. With ThrowOnError set the first mismatch
// aborts analysis.
func Analyze(c *lint.Checker, expr Expression) (*Plan, error) {
	p := &Plan{checker: c, expr: expr}

	result, err := analyze(c, expr.Result)
	if err != nil {
		return nil, err
	}
	p.result = result

	p.operands = make([]lint.Analysis, 0, len(expr.Operands))
	for _, d := range expr.Operands {
		a, err := analyze(c, d)
		if err != nil {
			return nil, err
		}
		p.operands = append(p.operands, a)
	}

	c.Logger().Debug("expression analyzed",
		"expression", expr.Name,
		"operands", len(expr.Operands),
		"findings", p.Findings(),
		"runtime", p.VerifiesAtRuntime())
	return p, nil
}

func analyze(c *lint.Checker, d Descriptor) (lint.Analysis, error) {
	ref, err := d.Reference()
	if err != nil {
		return lint.Analysis{}, err
	}
	return c.AnalyzeStatic(ref)
}

// Expression returns the analyzed expression.
func (p *Plan) Expression() Expression { return p.expr }

// Findings counts the non-fatal diagnostics reported during analysis.
func (p *Plan) Findings() int {
	n := p.result.Findings
	for _, a := range p.operands {
		n += a.Findings
	}
	return n
}

// VerifiesAtRuntime reports whether Execute will verify shapes.
func (p *Plan) VerifiesAtRuntime() bool {
	return p.result.VerifyAtRuntime
}

// Execute verifies every operand, calls the evaluator, then verifies its
// result. Verification happens only if the plan asked for it at analysis
// time. The evaluator's output is returned as produced.
func (p *Plan) Execute(ctx context.Context, ev Evaluator, operands ...lint.Shaped) (lint.Shaped, error) {
	if len(operands) != len(p.operands) {
		return nil, fmt.Errorf("%w: %s takes %d operands, got %d",
			lint.ErrMalformedReference, p.name(), len(p.operands), len(operands))
	}

	if p.VerifiesAtRuntime() {
		for i, arr := range operands {
			a := p.operands[i]
			desc := fmt.Sprintf("operand %d (%s) of %s", i+1, a.Reference, p.name())
			if _, err := p.checker.VerifyRuntime(arr, a.Reference.Labels, desc, a.Reference.Location); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := ev.Evaluate(ctx, p.expr, operands)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", p.name(), err)
	}

	if p.VerifiesAtRuntime() {
		desc := fmt.Sprintf("result (%s) of %s", p.result.Reference, p.name())
		if _, err := p.checker.VerifyRuntime(out, p.result.Reference.Labels, desc, p.result.Reference.Location); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (p *Plan) name() string {
	if p.expr.Name != "" {
		return p.expr.Name
	}
	return p.expr.Result.Tensor
}
