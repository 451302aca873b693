package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"text", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mode(tt.in), tt.in)
	}
}

func TestEffectiveMode(t *testing.T) {
	r, _, _ := newTestRenderer(ModeAuto, true)
	assert.Equal(t, ModeText, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeAuto, false)
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())

	r, _, _ = newTestRenderer(ModeJSON, true)
	assert.Equal(t, ModeJSON, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(2, "Options")
	r.Success("no findings")
	r.Error("broken")

	assert.Equal(t, "## Options\n\nno findings\n", out.String())
	assert.Equal(t, "broken\n", errOut.String())
}

func TestRenderer_TextSymbols(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, false)

	r.Success("done")
	r.Warning("careful")
	assert.Equal(t, "✓ done\n", out.String())
	assert.Equal(t, "! careful\n", errOut.String())
}

func TestRenderer_Table(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Table([]string{"Label", "Extent"}, [][]string{{"i", "2"}, {"j", "3"}})

	assert.Contains(t, out.String(), "| Label | Extent |")
	assert.Contains(t, out.String(), "| i | 2 |")

	r, out, _ = newTestRenderer(ModeText, false)
	r.Table([]string{"Label", "Extent"}, [][]string{{"i", "2"}})
	assert.Contains(t, out.String(), "┌")
	assert.Contains(t, out.String(), "LABEL")
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(CheckOutput{RunID: "abc", Summary: CheckSummary{Files: 2}}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "abc", got["run_id"])
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "### Sizes", FormatHeader(3, "Sizes"))
	assert.Equal(t, "- **tol:** 3", FormatKeyValue("tol", "3"))
}

func TestPlainStylesLeaveTextUnchanged(t *testing.T) {
	r, _, _ := newTestRenderer(ModeText, false)
	assert.Equal(t, "EC02", r.Styles().Bold.Render("EC02"))
}

func TestNoColorKeepsTerminalTextPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	r, out, _ := newTestRenderer(ModeText, true)
	assert.Equal(t, ModeText, r.EffectiveMode())
	assert.Equal(t, "EC02", r.Styles().Error.Render("EC02"))

	r.Success("done")
	assert.Equal(t, "✓ done\n", out.String())
}
