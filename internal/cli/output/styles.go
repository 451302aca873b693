package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles creates terminal styles bound to renderer.
func NewStyles(renderer *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    renderer.NewStyle().Bold(true),
		Muted:   renderer.NewStyle().Foreground(lipgloss.Color("8")),
		Path:    renderer.NewStyle().Underline(true),
		Success: renderer.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: renderer.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   renderer.NewStyle().Foreground(lipgloss.Color("9")),
		Info:    renderer.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// PlainStyles returns styles that leave text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header:  plain,
		Bold:    plain,
		Muted:   plain,
		Path:    plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Info:    plain,
	}
}
