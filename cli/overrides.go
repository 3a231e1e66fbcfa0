package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/coscup/sessiongen/pkg/config"
)

const defaultOverridesFile = "known_tags.yaml"

func newOverridesCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Manage known-tag tables",
	}
	cmd.AddCommand(newOverridesExportCmd(fs))
	return cmd
}

func newOverridesExportCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the tags of a JSON snapshot as a known-tag table",
		Long: `export turns the current tagging of a snapshot into an override table, so that
curated tags survive future runs. Load it back with --overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := newContainer(config.FromContext(ctx), fs)
			input, _ := cmd.Flags().GetString("input")
			schedule, err := c.loadSnapshot().Execute(ctx, c.snapshotPath(input))
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			if err := c.exportOverrides().Execute(ctx, schedule, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported tags of %d sessions to %s\n", schedule.Count(), output)
			return nil
		},
	}
	addSnapshotFlag(cmd)
	cmd.Flags().String("output", defaultOverridesFile, "Override table to write")
	return cmd
}
