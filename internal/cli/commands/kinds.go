package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/einlint/internal/cli/output"
	"github.com/leapstack-labs/einlint/pkg/core"
	"github.com/leapstack-labs/einlint/pkg/lint"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KindsOptions holds options for the kinds command.
type KindsOptions struct {
	Group  string // Filter by group
	Long   bool   // Show descriptions
	Format string // Output format: text, json, markdown
}

// NewKindsCommand creates the kinds command.
func NewKindsCommand() *cobra.Command {
	opts := &KindsOptions{}
	cmd := &cobra.Command{
		Use:   "kinds [kind]",
		Short: "List diagnostic kinds",
		Long: `List every diagnostic einlint can report, or show one in detail.

A kind can be named by its ID (EC02) or its name (label-drift).`,
		Example: `  # List all kinds
  einlint kinds

  # Only the runtime checks
  einlint kinds --group runtime

  # Details for one kind
  einlint kinds label-drift`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd, opts.Format)
			if len(args) == 1 {
				return showKind(cmdCtx.Renderer, args[0])
			}
			return listKinds(cmdCtx.Renderer, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group: static, runtime, config")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Show descriptions")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listKinds(r *output.Renderer, opts *KindsOptions) error {
	kinds := lint.AllKinds()
	if opts.Group != "" {
		kinds = lint.GetKindsByGroup(opts.Group)
		if len(kinds) == 0 {
			return fmt.Errorf("unknown group %q", opts.Group)
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(KindsJSONOutput{Kinds: kinds, Total: len(kinds)})
	case output.ModeMarkdown:
		listKindsMarkdown(r, kinds, opts.Long)
	default:
		listKindsText(r, kinds, opts.Long)
	}
	return nil
}

// KindsJSONOutput is the JSON output structure for kinds listing.
type KindsJSONOutput struct {
	Kinds []core.KindInfo `json:"kinds"`
	Total int             `json:"total"`
}

func listKindsText(r *output.Renderer, kinds []core.KindInfo, long bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render(fmt.Sprintf("Diagnostic Kinds (%d)", len(kinds))))
	r.Println("")

	title := cases.Title(language.English)
	currentGroup := ""
	for _, k := range kinds {
		if k.Group != currentGroup {
			currentGroup = k.Group
			r.Println(styles.Bold.Render("  " + title.String(currentGroup)))
		}
		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(k.ID),
			k.Name,
			severityLabel(r, k.Severity),
		)
		if long {
			r.Println(styles.Muted.Render("        " + k.Description))
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'einlint kinds <kind>' for detailed documentation"))
	r.Println("")
}

func listKindsMarkdown(r *output.Renderer, kinds []core.KindInfo, long bool) {
	r.Println("# Diagnostic Kinds")
	r.Println("")

	title := cases.Title(language.English)
	currentGroup := ""
	for _, k := range kinds {
		if k.Group != currentGroup {
			if currentGroup != "" {
				r.Println("")
			}
			currentGroup = k.Group
			r.Println("## " + title.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **%s** - %s (`%s`)\n", k.ID, k.Name, k.Severity)
		if long {
			r.Println("  " + k.Description)
		}
	}
	r.Println("")
}

func showKind(r *output.Renderer, ref string) error {
	k, ok := lint.GetKindByID(strings.ToUpper(ref))
	if !ok {
		k, ok = lint.GetKindByID(strings.ToLower(ref))
	}
	if !ok {
		return fmt.Errorf("kind %q not found", ref)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(k)
	case output.ModeMarkdown:
		showKindMarkdown(r, k)
	default:
		showKindText(r, k)
	}
	return nil
}

func showKindText(r *output.Renderer, k core.KindInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header.Render(fmt.Sprintf("%s - %s", k.ID, k.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), k.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), k.Severity)
	r.Printf("  %s: %s\n", styles.Bold.Render("On mismatch"), failureMode(k))
	r.Println("")

	section := func(title, body string, style func(...string) string) {
		if body == "" {
			return
		}
		r.Println(styles.Bold.Render(title))
		for _, line := range strings.Split(body, "\n") {
			r.Println(style("  " + line))
		}
		r.Println("")
	}
	plain := func(s ...string) string { return strings.Join(s, "") }

	section("Description", k.Description, plain)
	section("Why This Matters", k.Rationale, plain)
	section("Bad Example", k.BadExample, styles.Muted.Render)
	section("Good Example", k.GoodExample, styles.Success.Render)
	section("How To Fix", k.Fix, plain)
}

func showKindMarkdown(r *output.Renderer, k core.KindInfo) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("%s - %s", k.ID, k.Name)))
	r.Println("")
	r.Println(output.FormatKeyValue("Group", k.Group))
	r.Println(output.FormatKeyValue("Severity", k.Severity.String()))
	r.Println(output.FormatKeyValue("On mismatch", failureMode(k)))
	r.Println("")
	r.Println(k.Description)
	r.Println("")

	if k.Rationale != "" {
		r.Println(output.FormatHeader(2, "Why This Matters"))
		r.Println("")
		r.Println(k.Rationale)
		r.Println("")
	}
	for _, ex := range []struct{ title, body string }{
		{"Bad Example", k.BadExample},
		{"Good Example", k.GoodExample},
	} {
		if ex.body == "" {
			continue
		}
		r.Println(output.FormatHeader(2, ex.title))
		r.Println("")
		r.Println("```")
		r.Println(ex.body)
		r.Println("```")
		r.Println("")
	}
	if k.Fix != "" {
		r.Println(output.FormatHeader(2, "How To Fix"))
		r.Println("")
		r.Println(k.Fix)
		r.Println("")
	}
}

func failureMode(k core.KindInfo) string {
	if k.PolicyGoverned {
		return "reported, or fails when throw is set"
	}
	return "always fails"
}
