package lint

import (
	"fmt"
	"reflect"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/label"
)

// VerifyRuntime checks the shape of arr against labels and returns arr
// unchanged, whether or not a mismatch was reported.
//
// The rank must equal the number of labels; a RankMismatch skips every
// per-dimension check and leaves the size store alone. Each dimension then
// claims its label's extent: the first claim records it, a later unequal
// extent is a SizeMismatch and the recorded extent stays. Wildcard
// dimensions are not bound unless Options.BindWildcards is set, in which
// case every wildcard shares one extent. All dimensions are checked unless
// ThrowOnError aborts at the first mismatch.
//
// VerifyRuntime does not consult Options.SizeCheck; callers decide
// whether to verify (see Analysis.VerifyAtRuntime).
func (c *Checker) VerifyRuntime(arr Shaped, labels label.Sequence, description string, loc core.Location) (Shaped, error) {
	if isNil(arr) {
		return arr, malformed("no array for %s", describe(description, labels))
	}
	return arr, c.verify(arr.Shape(), labels, description, loc)
}

// Verify is VerifyRuntime preserving the static type of arr.
func Verify[A Shaped](c *Checker, arr A, labels label.Sequence, description string, loc core.Location) (A, error) {
	if _, err := c.VerifyRuntime(arr, labels, description, loc); err != nil {
		return arr, err
	}
	return arr, nil
}

func (c *Checker) verify(shape []int, labels label.Sequence, description string, loc core.Location) error {
	for d, extent := range shape {
		if extent < 0 {
			return malformed("dimension %d of %s has negative extent %d", d+1, describe(description, labels), extent)
		}
	}

	opts := c.Options()
	if len(shape) != len(labels) {
		diag := newDiagnostic(RankMismatch, loc, fmt.Sprintf(
			"%s has %d dimensions but %d index labels %s",
			describe(description, labels), len(shape), len(labels), labels))
		diag.Description = description
		diag.Expected = len(labels)
		diag.Actual = len(shape)
		return c.report(opts, diag)
	}

	for d, l := range labels {
		if l.Kind() == label.KindWildcard && !opts.BindWildcards {
			continue
		}
		actual := shape[d]
		expected, inserted := c.sizes.Claim(l, actual)
		if inserted {
			c.logger.Debug("recorded extent", "label", l.String(), "extent", actual)
			continue
		}
		if expected == actual {
			continue
		}
		diag := newDiagnostic(SizeMismatch, loc, fmt.Sprintf(
			"dimension %d of %s: index %s has extent %d, expected %d",
			d+1, describe(description, labels), l, actual, expected))
		diag.Description = description
		diag.Position = d
		diag.Label = l.String()
		diag.Expected = expected
		diag.Actual = actual
		if err := c.report(opts, diag); err != nil {
			return err
		}
	}
	return nil
}

// isNil reports whether arr is nil or an interface holding a nil pointer,
// map, channel or func. A nil slice such as Extents(nil) is a rank-0 shape.
func isNil(arr Shaped) bool {
	if arr == nil {
		return true
	}
	v := reflect.ValueOf(arr)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func describe(description string, labels label.Sequence) string {
	if description == "" {
		return "array" + labels.String()
	}
	return description
}
