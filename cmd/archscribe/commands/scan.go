package commands

import (
	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/pkg/toolschema"
)

// NewScanCommand builds the directory-scan command: C6's walk-and-aggregate
// tool, surfaced on its own since its output (per-language and
// per-directory summaries) isn't a dependency graph or a diff signal.
func NewScanCommand() *cobra.Command {
	var (
		directoryPath    string
		recursive        bool
		extensions       []string
		maxFileSizeBytes int64
		of               OutputFlags
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Walk a directory tree and aggregate per-language and per-directory metrics",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			args := map[string]any{
				"directory_path": directoryPath,
				"recursive":      recursive,
			}
			if len(extensions) > 0 {
				args["extensions"] = stringSliceArg(extensions)
			}

			if maxFileSizeBytes > 0 {
				args["max_file_size_bytes"] = maxFileSizeBytes
			}

			return runTool(cobraCmd.Context(), toolschema.NameScanDirectory, args, &of)
		},
	}

	cmd.Flags().StringVar(&directoryPath, "directory-path", ".", "root directory to scan")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "recurse into subdirectories")
	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "limit the scan to these file extensions")
	cmd.Flags().Int64Var(&maxFileSizeBytes, "max-file-size-bytes", 0, "skip files larger than this size, default 5MB")
	of.Register(cmd)

	return cmd
}
