package commands

import (
	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/pkg/mermaid"
	"github.com/vinpuli/archscribe/pkg/toolschema"
)

// NewArchCommand groups the architecture-inference and diagram-rendering
// tools under one parent command.
func NewArchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arch",
		Short: "Infer and render the repository's C4 architecture model",
	}

	cmd.AddCommand(
		newInferArchitectureCommand(),
		newRenderMermaidCommand(),
	)

	return cmd
}

func newInferArchitectureCommand() *cobra.Command {
	var (
		directoryPath string
		systemName    string
		recursive     bool
		of            OutputFlags
	)

	cmd := &cobra.Command{
		Use:   "infer-architecture",
		Short: "Infer a C4 context/container/component model and design patterns",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := map[string]any{
				"directory_path": directoryPath,
				"system_name":    systemName,
				"recursive":      recursive,
			}

			return runTool(cobraCmd.Context(), toolschema.NameInferArchitecture, args, &of)
		},
	}

	cmd.Flags().StringVar(&directoryPath, "directory-path", ".", "repository root")
	cmd.Flags().StringVar(&systemName, "system-name", "system", "system name used as the C4 context root")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "recurse into subdirectories")
	of.Register(cmd)

	return cmd
}

func newRenderMermaidCommand() *cobra.Command {
	var (
		directoryPath string
		systemName    string
		direction     string
		of            OutputFlags
	)

	cmd := &cobra.Command{
		Use:   "render-mermaid",
		Short: "Render the inferred architecture model as Mermaid diagrams",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := map[string]any{
				"directory_path": directoryPath,
				"system_name":    systemName,
				"direction":      direction,
			}

			return runTool(cobraCmd.Context(), toolschema.NameRenderMermaid, args, &of)
		},
	}

	cmd.Flags().StringVar(&directoryPath, "directory-path", ".", "repository root")
	cmd.Flags().StringVar(&systemName, "system-name", "system", "system name used as the C4 context root")
	cmd.Flags().StringVar(&direction, "direction", string(mermaid.LeftRight), "flowchart direction, LR or TB")
	of.Register(cmd)

	return cmd
}
