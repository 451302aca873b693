package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/einlint/internal/cli/output"
	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/leapstack-labs/einlint/pkg/pipeline"
	"github.com/spf13/cobra"
)

const (
	replPrompt = "einlint> "
	replFile   = "<repl>"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Check references interactively",
		Long: `Start an interactive session against one checker.

Each line is a tensor reference, a contraction, or a dot-command:

  A i j              check A[i,j]
  A i j : 2 3        check A[i,j] and verify its shape is 2x3
  C i k = A i j, B j k
                     check a contraction; add ": extents" to every
                     tensor to verify shapes when size checks are on
  .tol 5             set an option (alpha, tol, size, throw, named)
  .info              show options, labels and sizes
  .empty             forget recorded labels and sizes

Labels and sizes persist for the whole session.`,
		Example: `  # Start with size checks enabled
  einlint repl --size`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd, "")
	s := &replSession{
		ctx:     cmd.Context(),
		checker: cmdCtx.NewChecker(nil),
		r:       cmdCtx.Renderer,
		module:  cmdCtx.Cfg.Module,
	}

	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".einlint_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "einlint REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.eval(line) {
			return nil
		}
	}
}

// replSession evaluates REPL lines against one checker.
type replSession struct {
	ctx     context.Context
	checker *lint.Checker
	r       *output.Renderer
	module  string
	line    int
}

// eval runs one input line and reports whether the session should end.
func (s *replSession) eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	s.line++

	if strings.HasPrefix(line, ".") {
		quit, err := s.dotCommand(line[1:])
		if err != nil {
			s.r.Error(err.Error())
		}
		s.reportFindings(false)
		return quit
	}

	var err error
	if lhs, rhs, ok := strings.Cut(line, "="); ok {
		err = s.expression(lhs, rhs)
	} else {
		err = s.reference(line)
	}
	if err != nil {
		s.r.Error(err.Error())
		return false
	}
	s.reportFindings(true)
	return false
}

func (s *replSession) location() core.Location {
	return core.Location{Module: s.module, File: replFile, Line: s.line}
}

func (s *replSession) dotCommand(cmd string) (bool, error) {
	var name string
	if fields := strings.Fields(cmd); len(fields) > 0 {
		name = strings.ToLower(fields[0])
	}
	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		printREPLHelp(s.r.Writer())
		return false, nil
	}

	d, err := lint.ParseDirective(cmd)
	if err != nil {
		return false, err
	}
	d.Location = s.location()
	info, err := s.checker.Apply(d)
	if err != nil {
		return false, err
	}
	if info != nil {
		renderInfo(s.r, *info)
	}
	return false, nil
}

// reference checks a single "A i j [: 2 3]" line. The shape is verified
// only while size checks are on.
func (s *replSession) reference(text string) error {
	desc, shape, err := s.parseTensor(text)
	if err != nil {
		return err
	}
	ref, err := desc.Reference()
	if err != nil {
		return err
	}
	a, err := s.checker.AnalyzeStatic(ref)
	if err != nil {
		return err
	}
	if shape != nil && a.VerifyAtRuntime {
		if _, err := s.checker.VerifyRuntime(lint.Extents(shape), ref.Labels, ref.Tensor, ref.Location); err != nil {
			return err
		}
	}
	return nil
}

// expression checks "C i k = A i j, B j k", verifying shapes when every
// tensor declares one and size checks are on.
func (s *replSession) expression(lhs, rhs string) error {
	result, resultShape, err := s.parseTensor(lhs)
	if err != nil {
		return err
	}
	expr := pipeline.Expression{Result: result}
	shapes := []lint.Shaped{}
	declared := resultShape != nil
	for _, part := range strings.Split(rhs, ",") {
		op, shape, err := s.parseTensor(part)
		if err != nil {
			return err
		}
		expr.Operands = append(expr.Operands, op)
		shapes = append(shapes, lint.Extents(shape))
		declared = declared && shape != nil
	}

	plan, err := pipeline.Analyze(s.checker, expr)
	if err != nil {
		return err
	}
	if !declared || !plan.VerifiesAtRuntime() {
		return nil
	}
	_, err = plan.Execute(s.ctx, pipeline.Declared(resultShape), shapes...)
	return err
}

// parseTensor parses "name label... [: extent...]". The shape follows the
// last colon when the first token after it is an integer; any other colon
// is a wildcard label.
func (s *replSession) parseTensor(text string) (pipeline.Descriptor, []int, error) {
	labelPart, extentPart, hasShape := cutShape(text)
	fields := strings.Fields(labelPart)
	if len(fields) == 0 {
		return pipeline.Descriptor{}, nil, fmt.Errorf("%w: missing tensor name", lint.ErrMalformedReference)
	}

	desc := pipeline.Descriptor{
		Tensor:   fields[0],
		Labels:   fields[1:],
		Location: s.location(),
	}
	if !hasShape {
		return desc, nil, nil
	}

	shape := []int{}
	for _, f := range strings.Fields(extentPart) {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return desc, nil, fmt.Errorf("%w: invalid extent %q", lint.ErrMalformedReference, f)
		}
		shape = append(shape, n)
	}
	return desc, shape, nil
}

func cutShape(text string) (string, string, bool) {
	i := strings.LastIndex(text, ":")
	if i < 0 {
		return text, "", false
	}
	fields := strings.Fields(text[i+1:])
	if len(fields) == 0 {
		return text, "", false
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return text, "", false
	}
	return text[:i], text[i+1:], true
}

// reportFindings prints the diagnostics the last line produced, or ok.
func (s *replSession) reportFindings(confirm bool) {
	diags := s.checker.TakeDiagnostics()
	if len(diags) == 0 {
		if confirm {
			s.r.Success("ok")
		}
		return
	}
	for _, d := range diags {
		s.r.Warning(fmt.Sprintf("%s  %s", d.ID, d.Message))
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  A i j                  Check a reference
  A i j : 2 3            Check a reference and, with size on, its shape
  C i k = A i j, B j k   Check a contraction
  .<option> <value>      Set alpha, tol, size, throw or named
  .info                  Show options, labels and sizes
  .empty                 Forget recorded labels and sizes
  .help                  Show this help message
  .quit / .exit          Exit the REPL

Tips:
  - Labels are letters, integers, _ or names of two or more letters
  - : is also a wildcard unless integers follow it; write _ before literals
  - Use arrow keys to navigate history
  - Tab completion works for dot-commands
`
	_, _ = fmt.Fprintln(w, help)
}

func newREPLCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range lint.OptionNames() {
		items = append(items, readline.PcItem("."+name))
	}
	items = append(items,
		readline.PcItem(".info"),
		readline.PcItem(".empty"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
