package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/einlint/internal/cli/output"
	script "github.com/leapstack-labs/einlint/internal/starlark"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/spf13/cobra"
)

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "info [paths...]",
		Short: "Show the checker state after running files",
		Long: `Run the given manifests and scripts against one checker, then print
its options, the labels recorded for every tensor, and the extent bound to
every label.

Diagnostics are not printed; use check for that. With no path only the
configured options are shown.`,
		Example: `  # Show the effective options
  einlint info

  # Show what a manifest records
  einlint info --size models/attention.yaml

  # As JSON
  einlint info -f json models/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd, format)

			var files []string
			if len(args) > 0 {
				var err error
				if files, err = discoverFiles(args); err != nil {
					return err
				}
			}

			c := cmdCtx.NewChecker(nil)
			pool := script.NewThreadPool(1, cmdCtx.Logger)
			for _, path := range files {
				if _, err := runFile(cmd.Context(), c, pool, cmdCtx.Cfg.Module, path); err != nil {
					return err
				}
			}

			info := c.Info()
			if cmdCtx.Renderer.EffectiveMode() == output.ModeJSON {
				return cmdCtx.Renderer.JSON(info)
			}
			renderInfo(cmdCtx.Renderer, info)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// renderInfo prints options, labels and sizes as tables.
func renderInfo(r *output.Renderer, info lint.Info) {
	r.Header(2, "Options")
	var optionRows [][]string
	for _, name := range lint.OptionNames() {
		v, _ := info.Options.Get(name)
		optionRows = append(optionRows, []string{name, fmt.Sprint(v)})
	}
	r.Table([]string{"Option", "Value"}, optionRows)
	r.Println("")

	r.Header(2, fmt.Sprintf("Labels (%d)", len(info.Labels)))
	if len(info.Labels) > 0 {
		var rows [][]string
		for _, t := range info.Tensors() {
			seq := info.Labels[t]
			rows = append(rows, []string{t, seq.String(), strconv.Itoa(len(seq))})
		}
		r.Table([]string{"Tensor", "Labels", "Rank"}, rows)
	}
	r.Println("")

	r.Header(2, fmt.Sprintf("Sizes (%d)", len(info.Sizes)))
	if len(info.Sizes) > 0 {
		var rows [][]string
		for _, l := range info.SizeLabels() {
			rows = append(rows, []string{l.String(), strconv.Itoa(info.Sizes[l])})
		}
		r.Table([]string{"Label", "Extent"}, rows)
	}
	r.Println("")
}
