package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/coscup/sessiongen/pkg/config"
)

func newGenerateCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Render an existing JSON snapshot as embeddable Go source",
		Example: `  sessiongen generate --input coscup-2025_by_day_room.json --output-go ./mcp/data.go --go-package mcp`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			if cfg.Output.GoPath == "" {
				return fmt.Errorf("an output path is required: set --output-go or output.go_path")
			}
			c := newContainer(cfg, fs)
			input, _ := cmd.Flags().GetString("input")
			schedule, err := c.loadSnapshot().Execute(ctx, c.snapshotPath(input))
			if err != nil {
				return err
			}
			stamp, _ := cmd.Flags().GetBool("stamp")
			if err := c.writeOutputs("", cfg.Output.GoPath, stamp).Execute(ctx, schedule); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sessions to %s\n", schedule.Count(), cfg.Output.GoPath)
			return nil
		},
	}
	addSnapshotFlag(cmd)
	cmd.Flags().String("output-go", "", "Write the embeddable Go source to this path")
	cmd.Flags().String("go-package", "", "Package name of the generated Go file")
	cmd.Flags().String("go-var", "", "Exported variable name of the generated Go file")
	cmd.Flags().Bool("stamp", false, "Add a generation timestamp to the Go file header")
	return cmd
}
