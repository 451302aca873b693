package commands

import (
	"log/slog"

	"github.com/leapstack-labs/einlint/internal/cli/config"
	"github.com/leapstack-labs/einlint/internal/cli/output"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger the
// root command stored in cmd's context. format, if set, overrides the
// configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.Output)
	if format != "" {
		mode = output.Mode(format)
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewChecker creates a checker configured from the check section.
func (c *CommandContext) NewChecker(logger *slog.Logger) *lint.Checker {
	if logger == nil {
		logger = c.Logger
	}
	return lint.New(lint.WithOptions(c.Cfg.Check), lint.WithLogger(logger))
}
