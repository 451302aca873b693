package starlark

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/leapstack-labs/einlint/pkg/pipeline"
)

// Predeclared returns the builtins available to check scripts.
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"tensor":    starlark.NewBuiltin("tensor", tensorBuiltin),
		"check":     starlark.NewBuiltin("check", checkBuiltin),
		"verify":    starlark.NewBuiltin("verify", verifyBuiltin),
		"einsum":    starlark.NewBuiltin("einsum", einsumBuiltin),
		"option":    starlark.NewBuiltin("option", optionBuiltin),
		"directive": starlark.NewBuiltin("directive", directiveBuiltin),
		"info":      starlark.NewBuiltin("info", infoBuiltin),
		"empty":     starlark.NewBuiltin("empty", emptyBuiltin),
	}
}

// callerLocation is the script position that called the current builtin.
func callerLocation(thread *starlark.Thread, s *session) core.Location {
	pos := thread.CallFrame(1).Pos
	return core.Location{Module: s.module, File: pos.Filename(), Line: int(pos.Line)}
}

// tensor(name, labels, shape=None)
func tensorBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}

	var (
		name   string
		labels starlark.Value
		shape  starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "labels", &labels, "shape?", &shape); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%s: %w: empty tensor name", b.Name(), lint.ErrMalformedReference)
	}

	seq, err := labelsFromValue(labels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s: %w", b.Name(), lint.ErrMalformedReference, name, err)
	}

	t := &Tensor{ref: lint.Reference{Tensor: name, Labels: seq, Location: callerLocation(thread, s)}}
	if shape != starlark.None {
		if t.shape, err = intsFromValue(shape); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
	}
	return t, nil
}

// check(t) runs the static check on one tensor and returns the number of findings.
func checkBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}
	var t *Tensor
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &t); err != nil {
		return nil, err
	}

	a, err := s.checker.AnalyzeStatic(t.ref)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(a.Findings), nil
}

// verify(t, shape=None) checks a shape against the recorded extents. The
// tensor's declared shape is used when shape is omitted.
func verifyBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}
	var (
		t     *Tensor
		shape starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "t", &t, "shape?", &shape); err != nil {
		return nil, err
	}

	dims := t.shape
	if shape != starlark.None {
		if dims, err = intsFromValue(shape); err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
	}
	if dims == nil {
		return nil, fmt.Errorf("%s: %s has no shape", b.Name(), t.ref)
	}

	if _, err := s.checker.VerifyRuntime(lint.Extents(dims), t.ref.Labels, t.ref.String(), t.ref.Location); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// einsum(result, *operands, name="") analyzes a contraction and, when size
// checks are on and every tensor has a shape, verifies the shapes.
// It returns result.
func einsumBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}

	var name string
	if err := starlark.UnpackArgs(b.Name(), nil, kwargs, "name?", &name); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing result tensor", b.Name())
	}

	tensors := make([]*Tensor, len(args))
	for i, arg := range args {
		t, ok := arg.(*Tensor)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d: want tensor, got %s", b.Name(), i+1, arg.Type())
		}
		tensors[i] = t
	}

	expr := pipeline.Expression{Name: name, Result: tensors[0].descriptor()}
	declared := tensors[0].shape != nil
	operands := make([]lint.Shaped, 0, len(tensors)-1)
	for _, t := range tensors[1:] {
		expr.Operands = append(expr.Operands, t.descriptor())
		declared = declared && t.shape != nil
		operands = append(operands, lint.Extents(t.shape))
	}

	s.result.Expressions++
	plan, err := pipeline.Analyze(s.checker, expr)
	if err != nil {
		return nil, err
	}
	if plan.VerifiesAtRuntime() && declared {
		if _, err := plan.Execute(s.ctx, pipeline.Declared(tensors[0].shape), operands...); err != nil {
			return nil, err
		}
		s.result.Executed++
	}
	return tensors[0], nil
}

// option(name, value)
func optionBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}
	var (
		name  string
		value starlark.Value
	)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &name, &value); err != nil {
		return nil, err
	}
	v, err := optionValue(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	d := lint.Directive{Name: name, Value: v, HasValue: true, Location: callerLocation(thread, s)}
	if _, err := s.checker.Apply(d); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// directive(text) applies a textual directive such as "tol=5" or "empty".
// info returns the snapshot dict; everything else returns None.
func directiveBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}
	var text string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &text); err != nil {
		return nil, err
	}

	d, err := lint.ParseDirective(text)
	if err != nil {
		return nil, err
	}
	d.Location = callerLocation(thread, s)
	info, err := s.checker.Apply(d)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return starlark.None, nil
	}
	s.result.Infos = append(s.result.Infos, *info)
	return infoDict(*info)
}

// info() returns a snapshot of options and stores.
func infoBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	info := s.checker.Info()
	s.result.Infos = append(s.result.Infos, info)
	return infoDict(info)
}

// empty() clears both stores.
func emptyBuiltin(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	s, err := sessionOf(thread)
	if err != nil {
		return nil, err
	}
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	s.checker.Empty()
	return starlark.None, nil
}
