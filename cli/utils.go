package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/coscup/sessiongen/internal/domain"
)

// extractCLIFlags collects the flags the user set explicitly, typed the way
// they were declared. Flags without a configuration path are dropped by the
// CLI provider.
func extractCLIFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		var (
			value any
			err   error
		)
		switch f.Value.Type() {
		case "bool":
			value, err = cmd.Flags().GetBool(f.Name)
		case "int":
			value, err = cmd.Flags().GetInt(f.Name)
		case "stringSlice":
			value, err = cmd.Flags().GetStringSlice(f.Name)
		default:
			value = f.Value.String()
		}
		if err == nil {
			flags[f.Name] = value
		}
	})
	return flags
}

// addOutputFlags registers the writer and classifier flags shared by the
// commands that build a schedule.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-json", "", "Write the JSON snapshot to this path")
	cmd.Flags().String("output-go", "", "Write the embeddable Go source to this path")
	cmd.Flags().String("go-package", "", "Package name of the generated Go file")
	cmd.Flags().String("go-var", "", "Exported variable name of the generated Go file")
	cmd.Flags().Bool("stamp", false, "Add a generation timestamp to the Go file header")
	cmd.Flags().Int("max-tags", 0, "Keep at most this many keyword tags per session (0 keeps all)")
	cmd.Flags().Bool("no-abstract", false, "Match keywords against the title only")
	cmd.Flags().StringSlice("overrides", nil, "Known-tag tables to load (paths or doublestar globs)")
	cmd.Flags().String("timezone", "", "IANA timezone used to render day keys and clock times")
	cmd.Flags().Int("abstract-limit", 0, "Truncate abstracts to this many characters")
}

// addSnapshotFlag registers --input for commands that read a JSON snapshot.
func addSnapshotFlag(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "JSON snapshot to read (defaults to the configured output path)")
}

// resolveDay accepts a day key ("Aug.9") or an ISO date ("2025-08-09").
// An empty value resolves to the first day of the schedule.
func resolveDay(value string, schedule domain.Schedule) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		days := schedule.Days()
		if len(days) == 0 {
			return "", fmt.Errorf("schedule is empty")
		}
		return days[0], nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.Format(domain.DayLayout), nil
	}
	return value, nil
}
