// Package cliout renders a pkg/envelope.Envelope to a terminal or to
// JSON for cmd/archscribe, using go-pretty table formatting and
// fatih/color status coloring.
package cliout

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vinpuli/archscribe/pkg/envelope"
)

// Format is the output rendering mode.
type Format string

const (
	// FormatTable renders a colored status line plus tables/key-value
	// pairs for the envelope's data, suitable for a terminal.
	FormatTable Format = "table"
	// FormatJSON renders the envelope verbatim as indented JSON.
	FormatJSON Format = "json"
)

// Options controls how Render formats an envelope.
type Options struct {
	Format  Format
	NoColor bool
}

// Render writes env to w in the requested format. It never returns an
// error for a well-formed envelope; the error return exists for I/O
// and the (theoretical) non-JSON-marshalable payload.
func Render(w io.Writer, env envelope.Envelope, opts Options) error {
	if opts.Format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("encode envelope: %w", err)
		}

		return nil
	}

	color.NoColor = opts.NoColor //nolint:reassign // intentional override of library global, mirrors cmd/uast/validate.go

	renderStatusLine(w, env)

	for _, warning := range env.Warnings {
		color.New(color.FgYellow).Fprintf(w, "warning: %s\n", warning) //nolint:errcheck // best-effort terminal output
	}

	if !env.OK() {
		return nil
	}

	data, err := roundTripData(env.Data)
	if err != nil {
		return err
	}

	renderFields(w, data)

	return nil
}

func renderStatusLine(w io.Writer, env envelope.Envelope) {
	if env.OK() {
		color.New(color.FgGreen).Fprintln(w, "OK") //nolint:errcheck // best-effort terminal output

		return
	}

	color.New(color.FgRed).Fprintf(w, "ERROR: %s\n", env.Error) //nolint:errcheck // best-effort terminal output
}

// roundTripData flattens env.Data through JSON so arbitrary analyzer
// result structs present uniformly as maps/slices/scalars, the same
// shape a JSON-speaking MCP client would see.
func roundTripData(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	var out map[string]any

	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	return out, nil
}

func renderFields(w io.Writer, data map[string]any) {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		renderField(w, key, data[key])
	}
}

func renderField(w io.Writer, key string, value any) {
	switch typed := value.(type) {
	case []any:
		if rows, ok := asRowCollection(typed); ok {
			renderTable(w, key, rows)

			return
		}

		fmt.Fprintf(w, "%s: %s\n", key, joinScalars(typed))

	case map[string]any:
		fmt.Fprintf(w, "%s:\n", key)
		renderNested(w, typed)

	default:
		fmt.Fprintf(w, "%s: %s\n", key, formatScalar(value))
	}
}

func renderNested(w io.Writer, data map[string]any) {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(w, "  %s: %s\n", key, formatScalar(data[key]))
	}
}

// asRowCollection reports whether every element of a slice is a map,
// the shape go-pretty can render as a table.
func asRowCollection(items []any) ([]map[string]any, bool) {
	if len(items) == 0 {
		return nil, false
	}

	rows := make([]map[string]any, 0, len(items))

	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}

		rows = append(rows, row)
	}

	return rows, true
}

func renderTable(w io.Writer, title string, rows []map[string]any) {
	keys := collectionKeys(rows)
	if len(keys) == 0 {
		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	header := make(table.Row, len(keys))
	for i, key := range keys {
		header[i] = key
	}

	tbl.AppendHeader(header)

	for _, row := range rows {
		values := make(table.Row, len(keys))
		for i, key := range keys {
			values[i] = formatScalar(row[key])
		}

		tbl.AppendRow(values)
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%s: %d items", title, len(rows))})

	fmt.Fprintln(w, title+":")
	tbl.Render()
	fmt.Fprintln(w)
}

func collectionKeys(rows []map[string]any) []string {
	seen := make(map[string]bool)

	var keys []string

	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true

				keys = append(keys, key)
			}
		}
	}

	sort.Strings(keys)

	return keys
}

func joinScalars(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatScalar(item)
	}

	return strings.Join(parts, ", ")
}

func formatScalar(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}

		return fmt.Sprintf("%.2f", typed)
	case bool:
		return fmt.Sprintf("%t", typed)
	default:
		raw, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}

		return string(raw)
	}
}
