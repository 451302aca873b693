// Package manifest loads YAML check files: lists of directives and
// contraction expressions with optional declared shapes.
//
//	module: linalg
//	options:
//	  size: true
//	steps:
//	  - name: matmul
//	    result:   {tensor: C, labels: [i, k], shape: [2, 4]}
//	    operands:
//	      - {tensor: A, labels: [i, j], shape: [2, 3]}
//	      - {tensor: B, labels: [j, k], shape: [3, 4]}
//	  - directive: tol=5
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/leapstack-labs/einlint/pkg/pipeline"
)

// Manifest is a parsed check file.
type Manifest struct {
	Path    string
	Module  string
	Options []lint.Directive // in file order
	Steps   []Step
}

// Step is either a directive or an expression.
type Step struct {
	Line       int
	Directive  *lint.Directive
	Expression *pipeline.Expression
	// Shapes holds the declared result shape followed by one shape per
	// operand. It is nil unless every tensor of the expression declares one.
	Shapes [][]int
}

// ParseError is a manifest that is not valid YAML or has invalid content.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// UnknownFieldError is a key the manifest format does not define.
type UnknownFieldError struct {
	File  string
	Line  int
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s:%d: unknown field %q", e.File, e.Line, e.Field)
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(path, data)
}

// manifestYAML is the on-disk layout.
type manifestYAML struct {
	Module  string     `yaml:"module"`
	Options yaml.Node  `yaml:"options"`
	Steps   []stepYAML `yaml:"steps"`
}

type stepYAML struct {
	Line      int          `yaml:"-"`
	Directive string       `yaml:"directive"`
	Name      string       `yaml:"name"`
	Result    *tensorYAML  `yaml:"result"`
	Operands  []tensorYAML `yaml:"operands"`
}

type tensorYAML struct {
	Line   int      `yaml:"-"`
	Tensor string   `yaml:"tensor"`
	Labels []string `yaml:"labels"`
	Shape  []int    `yaml:"shape"`
}

func (s *stepYAML) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "directive", "name", "result", "operands"); err != nil {
		return err
	}
	type plain stepYAML
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = stepYAML(p)
	s.Line = value.Line
	return nil
}

func (t *tensorYAML) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "tensor", "labels", "shape"); err != nil {
		return err
	}
	type plain tensorYAML
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = tensorYAML(p)
	t.Line = value.Line
	return nil
}

// checkKeys rejects mapping keys outside allowed.
func checkKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	known := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		known[a] = true
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !known[key.Value] {
			return &UnknownFieldError{Line: key.Line, Field: key.Value}
		}
	}
	return nil
}

// Parse parses manifest content. path is used for locations and errors.
func Parse(path string, data []byte) (*Manifest, error) {
	var raw manifestYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		var unknown *UnknownFieldError
		if errors.As(err, &unknown) {
			unknown.File = path
			return nil, unknown
		}
		return nil, &ParseError{File: path, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	m := &Manifest{Path: path, Module: raw.Module}

	opts, err := parseOptions(path, raw.Module, &raw.Options)
	if err != nil {
		return nil, err
	}
	m.Options = opts

	for _, s := range raw.Steps {
		step, err := m.convertStep(s)
		if err != nil {
			return nil, err
		}
		m.Steps = append(m.Steps, step)
	}
	return m, nil
}

func parseOptions(path, module string, node *yaml.Node) ([]lint.Directive, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{File: path, Line: node.Line, Message: "options must be a mapping"}
	}

	var out []lint.Directive
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, &ParseError{File: path, Line: val.Line, Message: err.Error()}
		}
		out = append(out, lint.Directive{
			Name:     key.Value,
			Value:    v,
			HasValue: v != nil,
			Location: core.Location{Module: module, File: path, Line: key.Line},
		})
	}
	return out, nil
}

func (m *Manifest) convertStep(s stepYAML) (Step, error) {
	step := Step{Line: s.Line}
	loc := m.location(s.Line)

	if s.Directive != "" {
		if s.Result != nil || len(s.Operands) > 0 || s.Name != "" {
			return step, &ParseError{File: m.Path, Line: s.Line, Message: "a step is either a directive or an expression"}
		}
		d, err := lint.ParseDirective(s.Directive)
		if err != nil {
			return step, &ParseError{File: m.Path, Line: s.Line, Message: err.Error()}
		}
		d.Location = loc
		step.Directive = &d
		return step, nil
	}

	if s.Result == nil {
		return step, &ParseError{File: m.Path, Line: s.Line, Message: "expression has no result"}
	}

	expr := &pipeline.Expression{Name: s.Name, Result: m.descriptor(*s.Result)}
	shapes := [][]int{s.Result.Shape}
	declared := s.Result.Shape != nil
	for _, op := range s.Operands {
		expr.Operands = append(expr.Operands, m.descriptor(op))
		shapes = append(shapes, op.Shape)
		declared = declared && op.Shape != nil
	}
	step.Expression = expr
	if declared {
		step.Shapes = shapes
	}
	return step, nil
}

func (m *Manifest) descriptor(t tensorYAML) pipeline.Descriptor {
	return pipeline.Descriptor{
		Tensor:   t.Tensor,
		Labels:   t.Labels,
		Location: m.location(t.Line),
	}
}

// SetModule changes the module name carried by every location in m.
func (m *Manifest) SetModule(module string) {
	m.Module = module
	for i := range m.Options {
		m.Options[i].Location.Module = module
	}
	for _, s := range m.Steps {
		if s.Directive != nil {
			s.Directive.Location.Module = module
			continue
		}
		s.Expression.Result.Location.Module = module
		for j := range s.Expression.Operands {
			s.Expression.Operands[j].Location.Module = module
		}
	}
}

func (m *Manifest) location(line int) core.Location {
	return core.Location{Module: m.Module, File: m.Path, Line: line}
}
