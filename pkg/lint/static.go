package lint

import (
	"fmt"

	"github.com/leapstack-labs/einlint/pkg/label"
)

// AnalyzeStatic compares ref against the label sequence first recorded for
// the same tensor. The first use of a tensor records its labels and always
// succeeds. A later use with a different number of labels is an
// ArityMismatch; otherwise every position is compared with the drift rule
// and each drifting position is reported as a LabelDrift.
//
// The stored sequence is never modified by a comparison. The returned
// error is non-nil only for a malformed reference or, with ThrowOnError,
// for the first mismatch.
func (c *Checker) AnalyzeStatic(ref Reference) (Analysis, error) {
	if ref.Tensor == "" {
		return Analysis{Reference: ref}, malformed("reference %s has no tensor identity", ref)
	}

	opts := c.Options()
	a := Analysis{Reference: ref, VerifyAtRuntime: opts.SizeCheck}
	if !opts.AlphaCheck {
		return a, nil
	}

	stored, inserted := c.labels.Claim(ref.Tensor, ref.Labels)
	if inserted {
		c.logger.Debug("recorded labels", "tensor", ref.Tensor, "labels", ref.Labels.String())
		return a, nil
	}

	if len(ref.Labels) != len(stored) {
		d := newDiagnostic(ArityMismatch, ref.Location, arityMessage(ref, stored))
		d.Tensor = ref.Tensor
		d.Expected = len(stored)
		d.Actual = len(ref.Labels)
		a.Findings++
		return a, c.report(opts, d)
	}

	for k, next := range ref.Labels {
		prev := stored[k]
		if !label.Drifts(next, prev, opts.Tolerance, opts.NamedPolicy) {
			continue
		}
		d := newDiagnostic(LabelDrift, ref.Location, fmt.Sprintf(
			"index %d of %s is %q but %s was first used with %q (distance %d exceeds tolerance %d)",
			k+1, ref, next, ref.Tensor, prev, label.Distance(next, prev), opts.Tolerance))
		d.Tensor = ref.Tensor
		d.Position = k
		d.Label = next.String()
		d.Previous = prev.String()
		a.Findings++
		if err := c.report(opts, d); err != nil {
			return a, err
		}
	}
	return a, nil
}

func arityMessage(ref Reference, stored label.Sequence) string {
	direction := "fewer"
	if len(ref.Labels) > len(stored) {
		direction = "more"
	}
	return fmt.Sprintf("%s has %s indices than %s%s (%d vs %d)",
		ref, direction, ref.Tensor, stored, len(ref.Labels), len(stored))
}
