// Package cli provides the command-line interface for einlint.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/einlint/internal/cli/commands"
	"github.com/leapstack-labs/einlint/internal/cli/config"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "einlint",
		Short: "einlint - index-label checks for tensor contractions",
		Long: `einlint checks einsum-style tensor expressions for index-label consistency.

Every tensor is remembered with the labels of its first use. Later uses
with a different number of labels, or with letters that drift too far from
the first ones, are reported. With size checks on, the extent seen for each
label is remembered too, and arrays whose dimensions disagree are reported.

Checks are read from YAML manifests and Starlark scripts, or typed into the
REPL. Options come from einlint.yaml, EINLINT_* environment variables and
flags, in increasing precedence.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = config.WithConfig(ctx, cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: einlint.yaml, searched upward)")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	flags.BoolP("verbose", "v", false, "Debug logging to stderr")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default: off)")
	flags.String("module", "", "Module name attached to every location")

	// Check options, also settable as check.<name> in einlint.yaml
	flags.Bool(lint.OptionAlpha, true, "Check labels for alphabetic drift")
	flags.Int(lint.OptionTol, 3, "Largest alphabetic distance that is not drift")
	flags.Bool(lint.OptionSize, false, "Record label extents and verify shapes")
	flags.Bool(lint.OptionThrow, false, "Fail on the first mismatch instead of reporting it")
	flags.String(lint.OptionNamed, "exempt", "Drift policy for named labels: exempt, leading")
	flags.Bool(lint.OptionWild, false, "Bind wildcard dimensions to one shared extent")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc(lint.OptionNamed, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"exempt", "leading"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewInfoCommand())
	rootCmd.AddCommand(commands.NewKindsCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for einlint.

To load completions:

Bash:
  $ source <(einlint completion bash)

Zsh:
  $ einlint completion zsh > "${fpath[1]}/_einlint"

Fish:
  $ einlint completion fish | source

PowerShell:
  PS> einlint completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
