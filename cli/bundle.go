package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/coscup/sessiongen/pkg/config"
)

func newBundleCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Extract submissions from the website data bundle and write the schedule",
		Long: `bundle downloads the JavaScript chunk the COSCUP website ships its submissions
in, recovers the embedded JSON payload and runs it through the same pipeline as fetch.

With --room or --date the matching sessions are listed instead; outputs are then
only written when an output path is configured.`,
		Example: `  sessiongen bundle --output-json coscup_2025.json
  sessiongen bundle --date 2025-08-09 --room TR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			c := newContainer(cfg, fs)
			batch, err := c.extractBundle().Execute(ctx)
			if err != nil {
				return err
			}
			room, _ := cmd.Flags().GetString("room")
			date, _ := cmd.Flags().GetString("date")
			if room == "" && date == "" {
				stamp, _ := cmd.Flags().GetBool("stamp")
				return runPipeline(ctx, c, batch, stamp, cmd.OutOrStdout())
			}

			build, err := c.buildSchedule(ctx)
			if err != nil {
				return err
			}
			schedule, _ := build.Execute(ctx, batch.Records, batch.Lookup)
			day, err := resolveDay(date, schedule)
			if err != nil {
				return err
			}
			renderListing(cmd.OutOrStdout(), day, room, schedule.Find(day, room))
			if cfg.Output.JSONPath == "" && cfg.Output.GoPath == "" {
				return nil
			}
			stamp, _ := cmd.Flags().GetBool("stamp")
			return c.writeOutputs(cfg.Output.JSONPath, cfg.Output.GoPath, stamp).Execute(ctx, schedule)
		},
	}
	cmd.Flags().String("bundle-url", "", "URL of the website data bundle")
	cmd.Flags().String("room", "", "List only rooms whose name contains this text")
	cmd.Flags().String("date", "", `Day to list, as "Aug.9" or 2025-08-09 (defaults to the first day)`)
	addOutputFlags(cmd)
	return cmd
}
