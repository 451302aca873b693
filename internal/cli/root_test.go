package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/einlint/internal/cli/output"
	"github.com/leapstack-labs/einlint/internal/cli/testutil"
)

// run executes the root command from dir and returns stdout and stderr.
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "--help")
	require.NoError(t, err)

	for _, sub := range []string{"check", "info", "kinds", "repl", "version", "completion"} {
		assert.Contains(t, out, sub)
	}
	assert.Contains(t, out, "--tol")
	assert.Contains(t, out, "--config")
}

func TestRootCmd_Version(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "einlint "+Version)
}

func TestRootCmd_FlagsFeedOptions(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "info", "--tol", "9", "--named", "leading", "--wild", "-o", "json")
	require.NoError(t, err)

	var res struct {
		Options map[string]any `json:"options"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 9, res.Options["tol"], 0)
	assert.Equal(t, "leading", res.Options["named"])
	assert.Equal(t, true, res.Options["wild"])
}

func TestRootCmd_InvalidOption(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "info", "--named", "sometimes")
	assert.Error(t, err)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	t.Run("found from the working directory", func(t *testing.T) {
		out, _, err := run(t, dir, "info", "-o", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"size": true`)
	})

	t.Run("given explicitly", func(t *testing.T) {
		out, _, err := run(t, t.TempDir(), "--config", filepath.Join(dir, testutil.ConfigFile), "info", "-o", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"size": true`)
	})

	t.Run("flags beat the file", func(t *testing.T) {
		out, _, err := run(t, dir, "info", "--size=false", "-o", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"size": false`)
	})
}

func TestRootCmd_CheckProject(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := run(t, dir, "check", "-o", "json", "checks")
	require.Error(t, err)

	var res output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, testutil.ProjectFiles, res.Summary.Files)
	assert.Equal(t, 1, res.Summary.Diagnostics)
	assert.Equal(t, 1, res.Summary.Verified)

	for _, f := range res.Files {
		for _, d := range f.Diagnostics {
			assert.Equal(t, "testproject", d.Location.Module)
			assert.Equal(t, testutil.DriftLine, d.Location.Line)
			assert.Equal(t, filepath.Join("checks", "attention.star"), d.Location.File)
		}
	}
}

func TestRootCmd_MarkdownOutput(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := run(t, dir, "kinds", "-o", "markdown")
	require.NoError(t, err)
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Diagnostic Kinds")

	out, _, _ = run(t, dir, "check", "-o", "markdown", "checks")
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "EC02")
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, t.TempDir(), "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "einlint")
		})
	}

	_, _, err := run(t, t.TempDir(), "completion", "tcsh")
	assert.Error(t, err)
}
