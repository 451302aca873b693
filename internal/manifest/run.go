package manifest

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/leapstack-labs/einlint/pkg/pipeline"
)

// Result summarizes one manifest run.
type Result struct {
	Path        string
	Expressions int
	Executed    int // expressions whose shapes were verified
	Infos       []lint.Info
}

// Run applies the manifest options, then executes every step in order
// against c. Expressions with declared shapes are executed through the
// runtime checks when size checking is enabled.
//
// Run stops at the first error: a directive with an invalid value, a
// malformed reference, or any mismatch while ThrowOnError is set.
func Run(ctx context.Context, c *lint.Checker, m *Manifest) (*Result, error) {
	res := &Result{Path: m.Path}
	logger := c.Logger().With("manifest", m.Path)

	for _, d := range m.Options {
		if _, err := c.Apply(d); err != nil {
			return res, fmt.Errorf("%s: option %s: %w", d.Location, d.Name, err)
		}
	}

	for _, step := range m.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if step.Directive != nil {
			info, err := c.Apply(*step.Directive)
			if err != nil {
				return res, fmt.Errorf("%s: %w", step.Directive.Location, err)
			}
			if info != nil {
				res.Infos = append(res.Infos, *info)
			}
			continue
		}

		res.Expressions++
		plan, err := pipeline.Analyze(c, *step.Expression)
		if err != nil {
			return res, err
		}
		if !plan.VerifiesAtRuntime() {
			continue
		}
		if step.Shapes == nil {
			logger.Debug("shapes not declared, skipping runtime check", "line", step.Line)
			continue
		}

		operands := make([]lint.Shaped, 0, len(step.Shapes)-1)
		for _, s := range step.Shapes[1:] {
			operands = append(operands, lint.Extents(s))
		}
		if _, err := plan.Execute(ctx, pipeline.Declared(step.Shapes[0]), operands...); err != nil {
			return res, err
		}
		res.Executed++
	}

	logger.Debug("manifest done", "expressions", res.Expressions, "executed", res.Executed)
	return res, nil
}
