// Package starlark runs Starlark check scripts. Scripts declare tensors
// with tensor(), pass contractions to einsum() and configure the checker
// with option() and directive():
//
//	option("size", True)
//	A = tensor("A", ["i", "j"], shape = [2, 3])
//	B = tensor("B", "j k", shape = [3, 4])
//	einsum(tensor("C", "i k", shape = [2, 4]), A, B, name = "matmul")
package starlark

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/einlint/pkg/label"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/leapstack-labs/einlint/pkg/pipeline"
)

// Tensor is the Starlark value returned by tensor().
type Tensor struct {
	ref   lint.Reference
	shape []int // nil when not declared
}

var (
	_ starlark.Value    = (*Tensor)(nil)
	_ starlark.HasAttrs = (*Tensor)(nil)
)

func (t *Tensor) String() string        { return fmt.Sprintf("tensor(%s)", t.ref) }
func (t *Tensor) Type() string          { return "tensor" }
func (t *Tensor) Freeze()               {}
func (t *Tensor) Truth() starlark.Bool  { return starlark.True }
func (t *Tensor) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: tensor") }

// Attr exposes name, labels, shape and rank.
func (t *Tensor) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(t.ref.Tensor), nil
	case "labels":
		elems := make([]starlark.Value, len(t.ref.Labels))
		for i, l := range t.ref.Labels {
			elems[i] = labelValue(l)
		}
		return starlark.Tuple(elems), nil
	case "shape":
		if t.shape == nil {
			return starlark.None, nil
		}
		elems := make([]starlark.Value, len(t.shape))
		for i, n := range t.shape {
			elems[i] = starlark.MakeInt(n)
		}
		return starlark.Tuple(elems), nil
	case "rank":
		return starlark.MakeInt(len(t.ref.Labels)), nil
	}
	return nil, nil
}

// AttrNames lists the attributes.
func (t *Tensor) AttrNames() []string {
	return []string{"labels", "name", "rank", "shape"}
}

func (t *Tensor) descriptor() pipeline.Descriptor {
	labels := make([]string, len(t.ref.Labels))
	for i, l := range t.ref.Labels {
		labels[i] = l.String()
	}
	return pipeline.Descriptor{Tensor: t.ref.Tensor, Labels: labels, Location: t.ref.Location}
}

// labelValue returns literals as ints and every other label as a string.
func labelValue(l label.Label) starlark.Value {
	if l.Kind() == label.KindLiteral {
		return starlark.MakeInt(l.Int())
	}
	return starlark.String(l.String())
}

// labelsFromValue accepts a list or tuple of strings and ints, or a single
// string of labels separated by spaces or commas.
func labelsFromValue(v starlark.Value) (label.Sequence, error) {
	if s, ok := v.(starlark.String); ok {
		tokens := strings.FieldsFunc(string(s), func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		return label.ParseSequence(tokens)
	}

	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("labels must be a string or a sequence, got %s", v.Type())
	}
	iter := iterable.Iterate()
	defer iter.Done()

	var (
		seq  label.Sequence
		elem starlark.Value
	)
	for i := 0; iter.Next(&elem); i++ {
		var (
			l   label.Label
			err error
		)
		switch e := elem.(type) {
		case starlark.String:
			l, err = label.Parse(string(e))
		case starlark.Int:
			n, ok := e.Int64()
			if !ok {
				return nil, fmt.Errorf("position %d: literal label out of range", i)
			}
			l = label.Literal(int(n))
		default:
			err = fmt.Errorf("unsupported label type %s", elem.Type())
		}
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		seq = append(seq, l)
	}
	return seq, nil
}

// intsFromValue converts a list or tuple of ints.
func intsFromValue(v starlark.Value) ([]int, error) {
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("shape must be a sequence of ints, got %s", v.Type())
	}
	iter := iterable.Iterate()
	defer iter.Done()

	out := []int{}
	var elem starlark.Value
	for i := 0; iter.Next(&elem); i++ {
		n, err := starlark.AsInt32(elem)
		if err != nil {
			return nil, fmt.Errorf("shape[%d]: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// optionValue converts an option value to the Go form SetOption coerces.
func optionValue(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		n, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer out of range: %s", val)
		}
		return n, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	}
	return nil, fmt.Errorf("unsupported option value type %s", v.Type())
}

// infoDict renders an Info snapshot as
// {"options": {...}, "labels": {tensor: [labels]}, "sizes": {label: extent}}.
func infoDict(info lint.Info) (*starlark.Dict, error) {
	opts := starlark.NewDict(len(lint.OptionNames()))
	for _, name := range lint.OptionNames() {
		v, _ := info.Options.Get(name)
		var sv starlark.Value
		switch val := v.(type) {
		case bool:
			sv = starlark.Bool(val)
		case int:
			sv = starlark.MakeInt(val)
		case string:
			sv = starlark.String(val)
		default:
			sv = starlark.String(fmt.Sprint(val))
		}
		if err := opts.SetKey(starlark.String(name), sv); err != nil {
			return nil, err
		}
	}

	labels := starlark.NewDict(len(info.Labels))
	for _, tensor := range info.Tensors() {
		seq := info.Labels[tensor]
		elems := make([]starlark.Value, len(seq))
		for i, l := range seq {
			elems[i] = labelValue(l)
		}
		if err := labels.SetKey(starlark.String(tensor), starlark.NewList(elems)); err != nil {
			return nil, err
		}
	}

	keys := info.SizeLabels()
	sizes := starlark.NewDict(len(keys))
	for _, l := range keys {
		if err := sizes.SetKey(starlark.String(l.String()), starlark.MakeInt(info.Sizes[l])); err != nil {
			return nil, err
		}
	}

	out := starlark.NewDict(3)
	for _, kv := range []struct {
		k string
		v starlark.Value
	}{{"options", opts}, {"labels", labels}, {"sizes", sizes}} {
		if err := out.SetKey(starlark.String(kv.k), kv.v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
