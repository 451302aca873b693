package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/label"
)

// Bare directives, accepted by Apply without a value.
const (
	DirectiveInfo  = "info"
	DirectiveEmpty = "empty"
)

// Directive is one entry of the configuration surface: an option
// assignment such as tol=5, or a bare info or empty.
type Directive struct {
	Name     string
	Value    any
	HasValue bool
	Location core.Location
}

// String renders the directive in its textual form.
func (d Directive) String() string {
	if !d.HasValue {
		return d.Name
	}
	return fmt.Sprintf("%s=%v", d.Name, d.Value)
}

// ParseDirective parses "name", "name=value" or "name value".
// Values stay strings; SetOption coerces them.
func ParseDirective(s string) (Directive, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Directive{}, fmt.Errorf("%w: empty directive", ErrUnrecognizedDirective)
	}

	name, value, found := strings.Cut(s, "=")
	if !found {
		name, value, found = strings.Cut(s, " ")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)

	d := Directive{Name: name}
	if found && value != "" {
		d.Value = value
		d.HasValue = true
	}
	return d, nil
}

// SetOption assigns one option by name. An unknown name is reported as
// UnrecognizedDirective through the reporter; a known name with a value of
// the wrong type fails with ErrInvalidDirectiveValue.
func (c *Checker) SetOption(name string, value any) error {
	return c.setOption(name, value, core.Location{})
}

func (c *Checker) setOption(name string, value any, loc core.Location) error {
	name = strings.ToLower(strings.TrimSpace(name))

	c.mu.Lock()
	var (
		known = true
		ok    bool
	)
	switch name {
	case OptionAlpha:
		c.opts.AlphaCheck, ok = coerceBoolInto(c.opts.AlphaCheck, value)
	case OptionTol:
		var tol int
		if tol, ok = coerceInt(value); ok && tol >= 0 {
			c.opts.Tolerance = tol
		} else {
			ok = false
		}
	case OptionSize:
		c.opts.SizeCheck, ok = coerceBoolInto(c.opts.SizeCheck, value)
	case OptionThrow:
		c.opts.ThrowOnError, ok = coerceBoolInto(c.opts.ThrowOnError, value)
	case OptionNamed:
		var policy label.NamedPolicy
		if policy, ok = coerceNamedPolicy(value); ok {
			c.opts.NamedPolicy = policy
		}
	case OptionWild:
		c.opts.BindWildcards, ok = coerceBoolInto(c.opts.BindWildcards, value)
	default:
		known = false
	}
	opts := c.opts
	c.mu.Unlock()

	if !known {
		d := newDiagnostic(UnrecognizedDirective, loc, fmt.Sprintf(
			"unrecognized directive %q (expected one of %s, %s, %s)",
			name, strings.Join(OptionNames(), ", "), DirectiveInfo, DirectiveEmpty))
		d.Label = name
		return c.report(opts, d)
	}
	if !ok {
		return fmt.Errorf("%w: %s=%v", ErrInvalidDirectiveValue, name, value)
	}
	c.logger.Debug("option set", "name", name, "value", value)
	return nil
}

// coerceBoolInto keeps current when v cannot be coerced.
func coerceBoolInto(current bool, v any) (bool, bool) {
	b, ok := coerceBool(v)
	if !ok {
		return current, false
	}
	return b, true
}

// Apply executes a directive. info returns a snapshot of options and
// stores; empty clears both stores; any other name is an option assignment
// and requires a value.
func (c *Checker) Apply(d Directive) (*Info, error) {
	switch strings.ToLower(d.Name) {
	case DirectiveInfo:
		info := c.Info()
		return &info, nil
	case DirectiveEmpty:
		c.Empty()
		return nil, nil
	}

	if !d.HasValue {
		if _, known := c.Options().Get(strings.ToLower(d.Name)); known {
			return nil, fmt.Errorf("%w: %s needs a value", ErrInvalidDirectiveValue, d.Name)
		}
	}
	return nil, c.setOption(d.Name, d.Value, d.Location)
}
