// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/md-convert/pkg/types"
)

// Export formats accepted by Export.
const (
	ExportTable = "table"
	ExportYAML  = "yaml"
	ExportJSON  = "json"
)

// Export writes records to w as a table, YAML, or JSON.
func Export(w io.Writer, records []types.RunRecord, format string) error {
	switch format {
	case ExportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case ExportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case ExportTable, "":
		return writeTable(w, records)
	default:
		return fmt.Errorf("unknown export format %q: want table, yaml, or json", format)
	}
}

func writeTable(w io.Writer, records []types.RunRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No conversions recorded.")
		return err
	}

	fmt.Fprintf(w, "%-20s  %-9s  %-5s  %-11s  %-40s  %s\n",
		"When", "Status", "Fmt", "Mode", "Title", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range records {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		target := r.OutputPath
		if r.Status == types.RunFailed {
			target = r.Error
		}
		fmt.Fprintf(w, "%-20s  %-9s  %-5s  %-11s  %-40s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Format, r.Mode, title, target)
	}
	return nil
}
