// Package commands provides CLI command implementations for archscribe,
// one file per subcommand group.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vinpuli/archscribe/internal/cliout"
	"github.com/vinpuli/archscribe/pkg/toolschema"
	"github.com/vinpuli/archscribe/pkg/toolset"
)

// OutputFlags holds the output-formatting flags shared by every leaf
// command, mirroring the analyze command's --format/--no-color flags.
type OutputFlags struct {
	format  string
	noColor bool
}

// Register adds --format and --no-color to cmd.
func (of *OutputFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&of.format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().BoolVar(&of.noColor, "no-color", false, "Disable colored output")
}

func (of *OutputFlags) options() cliout.Options {
	format := cliout.FormatTable
	if strings.EqualFold(of.format, "json") {
		format = cliout.FormatJSON
	}

	return cliout.Options{Format: format, NoColor: of.noColor}
}

// runTool validates args against name's schema, dispatches the request,
// and renders the resulting envelope to stdout. Arguments that fail
// schema validation return an error without rendering anything; once
// dispatched, the envelope is always rendered before any error is
// returned, so a failed tool still prints
// its error envelope (status, message, warnings) the same way the MCP
// surface returns it in CallToolResult; the returned error only
// controls the process exit code.
func runTool(ctx context.Context, name toolschema.Name, args map[string]any, of *OutputFlags) error {
	req, err := toolset.New(name, args)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	env := toolset.Dispatch(ctx, req)

	if renderErr := cliout.Render(os.Stdout, env, of.options()); renderErr != nil {
		return fmt.Errorf("render result: %w", renderErr)
	}

	if !env.OK() {
		return errToolFailed
	}

	return nil
}

var errToolFailed = toolFailedError("tool reported an error; see envelope above")

type toolFailedError string

func (e toolFailedError) Error() string { return string(e) }

// stringSliceArg converts a cobra comma-separated flag value into the
// []any shape toolset.New's args map expects for list-typed fields.
func stringSliceArg(values []string) []any {
	if len(values) == 0 {
		return nil
	}

	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
