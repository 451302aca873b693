package starlark

import (
	"context"
	"fmt"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/einlint/pkg/lint"
)

const sessionKey = "einlint.session"

// Scripts are flat lists of checks, so top-level if/for and rebinding
// globals are allowed.
var fileOptions = &syntax.FileOptions{TopLevelControl: true, GlobalReassign: true}

// Result summarizes one script run.
type Result struct {
	Path        string
	Expressions int
	Executed    int // einsum calls whose shapes were verified
	Infos       []lint.Info
}

// session is the per-run state reachable from builtins through the thread.
type session struct {
	ctx     context.Context
	checker *lint.Checker
	module  string
	result  *Result
}

func sessionOf(thread *starlark.Thread) (*session, error) {
	s, ok := thread.Local(sessionKey).(*session)
	if !ok || s == nil {
		return nil, fmt.Errorf("%s: not running under einlint", thread.Name)
	}
	return s, nil
}

// Runner executes check scripts against one Checker. It is safe for
// concurrent use; every run takes its own thread from the pool.
type Runner struct {
	checker *lint.Checker
	pool    *ThreadPool
	module  string
}

// NewRunner creates a runner. module, if set, is attached to every
// location the scripts produce.
func NewRunner(c *lint.Checker, pool *ThreadPool, module string) *Runner {
	if pool == nil {
		pool = NewThreadPool(0, c.Logger())
	}
	return &Runner{checker: c, pool: pool, module: module}
}

// RunFile reads and runs a script.
func (r *Runner) RunFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return r.Run(ctx, path, src)
}

// Run executes src. Errors from builtins, such as a mismatch under
// ThrowOnError, abort the script and are returned wrapped, so errors.Is
// matches the lint sentinels.
func (r *Runner) Run(ctx context.Context, path string, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Path: path}
	thread := r.pool.Get(path)
	thread.SetLocal(sessionKey, &session{ctx: ctx, checker: r.checker, module: r.module, result: res})

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	_, err := starlark.ExecFileOptions(fileOptions, thread, path, src, Predeclared())
	close(done)
	<-stopped

	if ctx.Err() == nil {
		r.pool.Put(thread)
	}
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, err
	}

	r.checker.Logger().Debug("script done", "script", path,
		"expressions", res.Expressions, "executed", res.Executed)
	return res, nil
}
