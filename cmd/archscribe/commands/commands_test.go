package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinpuli/archscribe/cmd/archscribe/commands"
)

func buildTestRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "archscribe"}
	root.AddCommand(
		commands.NewAnalyzeCommand(),
		commands.NewScanCommand(),
		commands.NewGraphCommand(),
		commands.NewDiffCommand(),
		commands.NewArchCommand(),
		commands.NewPlanCommand(),
		commands.NewMCPCommand(),
	)

	return root
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := buildTestRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()

	return buf.String(), err
}

func TestAnalyzeDetectLanguage_PrintsResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(path, []byte("print('hi')\n"), 0o644))

	out, err := runCLI(t, "analyze", "detect-language", "--path", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "language: python")
}

func TestAnalyzeDetectLanguage_JSONFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	out, err := runCLI(t, "analyze", "detect-language", "--path", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "success"`)
}

func TestAnalyzeExtractFunctions_MissingPath_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "analyze", "extract-functions", "--language", "go", "--no-color")
	require.Error(t, err)
}

func TestScan_PrintsAggregatedSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))

	out, err := runCLI(t, "scan", "--directory-path", dir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"by_language"`)
	assert.Contains(t, out, `"total_files": 1`)
}

func TestRootHelp_ListsCommandGroups(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "analyze")
	assert.Contains(t, out, "scan")
	assert.Contains(t, out, "graph")
	assert.Contains(t, out, "diff")
	assert.Contains(t, out, "arch")
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "mcp")
}
