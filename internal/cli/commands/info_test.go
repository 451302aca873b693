package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/einlint/internal/cli/config"
)

func TestInfoCommand_OptionsOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Check.Tolerance = 7

	out, _, err := execute(t, NewInfoCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "## Options")
	assert.Contains(t, out, "| tol | 7 |")
	assert.Contains(t, out, "## Labels (0)")
	assert.Contains(t, out, "## Sizes (0)")
}

func TestInfoCommand_AfterRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "matmul.yaml", cleanManifest)

	out, _, err := execute(t, NewInfoCommand(), nil, path)
	require.NoError(t, err)
	assert.Contains(t, out, "## Labels (3)")
	assert.Contains(t, out, "| A | [i, j] | 2 |")
	assert.Contains(t, out, "## Sizes (3)")
	assert.Contains(t, out, "| j | 3 |")
}

func TestInfoCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "matmul.yaml", cleanManifest)

	out, _, err := execute(t, NewInfoCommand(), nil, "-f", "json", path)
	require.NoError(t, err)

	var res struct {
		Options map[string]any      `json:"options"`
		Labels  map[string][]string `json:"labels"`
		Sizes   map[string]int      `json:"sizes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res.Options["size"])
	assert.Equal(t, []string{"j", "k"}, res.Labels["B"])
	assert.Equal(t, map[string]int{"i": 2, "j": 3, "k": 4}, res.Sizes)
}

func TestInfoCommand_StopsOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "options:\n  throw: maybe\n")

	_, _, err := execute(t, NewInfoCommand(), nil, path)
	assert.ErrorContains(t, err, "invalid directive value")
}
