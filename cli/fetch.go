package cli

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/coscup/sessiongen/internal/source"
	"github.com/coscup/sessiongen/pkg/config"
	"github.com/coscup/sessiongen/pkg/logger"
)

func newFetchCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch confirmed submissions from pretalx and write the schedule",
		Example: `  sessiongen fetch --year 2025 --output-json coscup_2025.json --output-go ./mcp/data.go
  sessiongen fetch --overrides 'known/**/*.yaml' --max-tags 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := newContainer(config.FromContext(ctx), fs)
			batch, err := c.fetchPretalx().Execute(ctx)
			if err != nil {
				return err
			}
			stamp, _ := cmd.Flags().GetBool("stamp")
			return runPipeline(ctx, c, batch, stamp, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int("year", 0, "Conference year; derives the event slug, name and session URLs")
	cmd.Flags().String("event", "", "pretalx event slug")
	cmd.Flags().String("base-url", "", "pretalx base URL")
	addOutputFlags(cmd)
	return cmd
}

// runPipeline builds the schedule from batch, writes the configured outputs
// and prints a summary.
func runPipeline(
	ctx context.Context,
	c *container,
	batch source.Batch,
	stamp bool,
	out io.Writer,
) error {
	build, err := c.buildSchedule(ctx)
	if err != nil {
		return err
	}
	schedule, stats := build.Execute(ctx, batch.Records, batch.Lookup)
	if stats.Emitted == 0 {
		logger.FromContext(ctx).Warn("No sessions emitted", "submissions", stats.Submissions)
	}
	jsonPath, goPath := c.outputPaths()
	if err := c.writeOutputs(jsonPath, goPath, stamp).Execute(ctx, schedule); err != nil {
		return err
	}
	renderSummary(out, schedule, stats)
	return nil
}
