// Package main provides the entry point for the archscribe CLI: a
// unified command-line front end over every tool pkg/toolset exposes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/cmd/archscribe/commands"
	"github.com/vinpuli/archscribe/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "archscribe",
		Short: "archscribe - repository archaeology and change-risk analysis",
		Long: `archscribe analyzes a repository's source and git history to answer
the questions that precede a risky change: what language and shape is
this file, how is the codebase structured, what did a diff actually
change, how risky is it, and what should the rollout plan look like.

Commands:
  analyze   Single-file analysis tools (language, functions, imports, metrics, types, risk)
  scan      Walk a directory tree and aggregate per-language/per-directory metrics
  graph     Build and trace the dependency graph
  diff      Analyze a git diff for risk, breakage, and test impact
  arch      Infer and render the C4 architecture model
  plan      Generate a rollout change plan
  mcp       Start the MCP stdio server for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		commands.NewAnalyzeCommand(),
		commands.NewScanCommand(),
		commands.NewGraphCommand(),
		commands.NewDiffCommand(),
		commands.NewArchCommand(),
		commands.NewPlanCommand(),
		commands.NewMCPCommand(),
		versionCmd(),
	)

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "archscribe %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
