package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/leapstack-labs/einlint/internal/cli/output"
	script "github.com/leapstack-labs/einlint/internal/starlark"
	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errCheckFailed is returned when a check run found issues, so the process
// exits non-zero.
var errCheckFailed = errors.New("check issues found")

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format string // Output format: text, markdown, json
	Watch  bool   // Re-check when files change
	Shared bool   // One checker for all files, in argument order
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check tensor index labels in manifests and scripts",
		Long: `Check every einsum-style expression for index-label consistency.

Paths may be .yaml/.yml manifests, .star scripts, or directories, which
are searched recursively. With no path the current directory is checked.

Each file gets its own checker, so labels and extents recorded in one file
do not leak into the next. Use --shared to check all files against one
checker, in the order given.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check everything below the current directory
  einlint check

  # Check one manifest with size checks on
  einlint check --size models/attention.yaml

  # Treat a set of files as one program
  einlint check --shared prelude.star layers/

  # Re-check on every save
  einlint check --watch ./checks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check when files change")
	cmd.Flags().BoolVar(&opts.Shared, "shared", false, "Check all files against one checker")
	cmd.Flags().IntP("jobs", "j", 0, "Files checked in parallel (0 = number of CPUs)")
	cmd.Flags().String("severity", "", "Minimum severity to report: error, warning, info")
	cmd.Flags().Duration("debounce", 0, "Quiet period before re-checking in watch mode")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	if opts.Watch {
		return watchCheck(cmd.Context(), cmdCtx, args, opts)
	}

	files, err := discoverFiles(args)
	if err != nil {
		return err
	}

	out, err := checkFiles(cmd.Context(), cmdCtx, files, opts)
	if err != nil {
		return err
	}
	renderCheckResults(r, out)

	if out.Summary.Diagnostics > 0 || out.Summary.Failed > 0 {
		return errCheckFailed
	}
	return nil
}

// checkFiles runs every file and collects its diagnostics. A file that
// stops with an error is recorded as failed; the run continues with the
// next one. Only cancellation aborts the run.
func checkFiles(ctx context.Context, cmdCtx *CommandContext, files []string, opts *CheckOptions) (*output.CheckOutput, error) {
	cfg := cmdCtx.Cfg
	runID := uuid.NewString()
	logger := cmdCtx.Logger.With("run_id", runID)

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var shared *lint.Checker
	if opts.Shared {
		// First use records labels and extents, so file order matters.
		shared = cmdCtx.NewChecker(logger)
		jobs = 1
	}
	pool := script.NewThreadPool(jobs, logger)

	logger.Debug("check started", "files", len(files), "jobs", jobs, "shared", opts.Shared)
	start := time.Now()

	results := make([]output.CheckFileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			c := shared
			if c == nil {
				c = cmdCtx.NewChecker(logger.With("file", path))
			}

			res, err := runFile(gctx, c, pool, cfg.Module, path)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			fr := output.CheckFileResult{
				Path:        path,
				Expressions: res.Expressions,
				Verified:    res.Executed,
				Diagnostics: lint.FilterBySeverity(c.TakeDiagnostics(), cfg.Severity),
			}
			if err != nil {
				fr.Error = err.Error()
				logger.Debug("file failed", "file", path, "error", err)
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &output.CheckOutput{RunID: runID, Files: results}
	out.Summary.Files = len(results)
	for _, fr := range results {
		out.Summary.Expressions += fr.Expressions
		out.Summary.Verified += fr.Verified
		out.Summary.Diagnostics += len(fr.Diagnostics)
		if fr.Error != "" {
			out.Summary.Failed++
		}
	}
	if shared != nil {
		info := shared.Info()
		out.State = &info
	}

	logger.Debug("check finished",
		"diagnostics", out.Summary.Diagnostics,
		"failed", out.Summary.Failed,
		"duration", time.Since(start))
	return out, nil
}

// renderCheckResults outputs a check run in the renderer's mode.
func renderCheckResults(r *output.Renderer, out *output.CheckOutput) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(out)
		return
	}

	styles := r.Styles()
	for _, fr := range out.Files {
		if fr.Error == "" && len(fr.Diagnostics) == 0 {
			continue
		}
		r.Println(styles.Path.Render(fr.Path))
		for _, d := range fr.Diagnostics {
			line := "-"
			if d.Location.Line > 0 {
				line = strconv.Itoa(d.Location.Line)
			}
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-5s", line)),
				severityLabel(r, d.Severity),
				styles.Bold.Render(d.ID),
				d.Message,
			)
		}
		if fr.Error != "" {
			r.Printf("  %s  %s\n", styles.Muted.Render(fmt.Sprintf("%-5s", "-")), styles.Error.Render("stopped: "+fr.Error))
		}
		r.Println("")
	}

	if out.State != nil {
		renderInfo(r, *out.State)
	}

	s := out.Summary
	parts := []string{fmt.Sprintf("%d issues", s.Diagnostics)}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	parts = append(parts, fmt.Sprintf("%d expressions", s.Expressions))
	if s.Verified > 0 {
		parts = append(parts, fmt.Sprintf("%d verified", s.Verified))
	}
	summary := fmt.Sprintf("Summary: %s in %d files", strings.Join(parts, ", "), s.Files)
	if s.Diagnostics == 0 && s.Failed == 0 {
		r.Success(summary)
		return
	}
	r.Println(summary)
}

func severityLabel(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

// watchCheck checks paths, then again after every change to a checkable
// file, until interrupted.
func watchCheck(ctx context.Context, cmdCtx *CommandContext, paths []string, opts *CheckOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		if err := watchPath(watcher, p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	recheck := func() {
		files, err := discoverFiles(paths)
		if err != nil {
			r.Error(err.Error())
			return
		}
		out, err := checkFiles(ctx, cmdCtx, files, opts)
		if err != nil {
			if ctx.Err() == nil {
				r.Error(err.Error())
			}
			return
		}
		renderCheckResults(r, out)
	}

	recheck()
	r.Muted("Watching for changes. Press Ctrl+C to stop.")

	debounce := cmdCtx.Cfg.Watch.Debounce
	var debounceTimer *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchPath(watcher, event.Name)
					continue
				}
			}
			if !isCheckable(event.Name) {
				continue
			}

			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			r.Println("")
			recheck()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// watchPath adds a directory tree, or the directory holding a file.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
