package commands

import (
	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/pkg/toolschema"
)

// NewGraphCommand groups the dependency-graph tools under one parent
// command.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build and trace the repository's dependency graph",
	}

	cmd.AddCommand(
		newBuildDependencyGraphCommand(),
		newTraceDownstreamCommand(),
	)

	return cmd
}

func newBuildDependencyGraphCommand() *cobra.Command {
	var (
		directoryPath    string
		recursive        bool
		extensions       []string
		includeExternals bool
		of               OutputFlags
	)

	cmd := &cobra.Command{
		Use:   "build-dependency-graph",
		Short: "Build the import graph for a directory tree",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := map[string]any{
				"directory_path":                directoryPath,
				"recursive":                     recursive,
				"include_external_dependencies": includeExternals,
			}
			if len(extensions) > 0 {
				args["extensions"] = stringSliceArg(extensions)
			}

			return runTool(cobraCmd.Context(), toolschema.NameBuildDependencyGraph, args, &of)
		},
	}

	cmd.Flags().StringVar(&directoryPath, "directory-path", ".", "root directory to scan")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "recurse into subdirectories")
	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "limit the scan to these file extensions")
	cmd.Flags().BoolVar(&includeExternals, "include-external-dependencies", false, "include third-party modules as graph nodes")
	of.Register(cmd)

	return cmd
}

func newTraceDownstreamCommand() *cobra.Command {
	var (
		directoryPath string
		seeds         []string
		maxDepth      int
		of            OutputFlags
	)

	cmd := &cobra.Command{
		Use:   "trace-downstream",
		Short: "Trace downstream dependents of a set of changed files",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := map[string]any{
				"directory_path": directoryPath,
				"max_depth":      maxDepth,
			}
			if len(seeds) > 0 {
				args["seeds"] = stringSliceArg(seeds)
			}

			return runTool(cobraCmd.Context(), toolschema.NameTraceDownstream, args, &of)
		},
	}

	cmd.Flags().StringVar(&directoryPath, "directory-path", ".", "repository root")
	cmd.Flags().StringSliceVar(&seeds, "seeds", nil, "changed file paths to trace downstream from (required)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 5, "maximum trace depth")
	of.Register(cmd)

	return cmd
}
