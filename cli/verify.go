package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/coscup/sessiongen/internal/usecase"
	"github.com/coscup/sessiongen/pkg/config"
)

func newVerifyCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "List a day of a JSON snapshot per room and check its ordering",
		Example: `  sessiongen verify --day Aug.9
  sessiongen verify --input coscup-2025_by_day_room.json --code ABC123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c := newContainer(config.FromContext(ctx), fs)
			input, _ := cmd.Flags().GetString("input")
			schedule, err := c.loadSnapshot().Execute(ctx, c.snapshotPath(input))
			if err != nil {
				return err
			}
			dayFlag, _ := cmd.Flags().GetString("day")
			day, err := resolveDay(dayFlag, schedule)
			if err != nil {
				return err
			}
			room, _ := cmd.Flags().GetString("room")
			code, _ := cmd.Flags().GetString("code")
			report, err := c.verify().Execute(ctx, schedule, usecase.VerifyOptions{Day: day, Room: room, Code: code})
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("verification found %d problems", len(report.Problems))
			}
			return nil
		},
	}
	addSnapshotFlag(cmd)
	cmd.Flags().String("day", "", `Day to list, as "Aug.9" or 2025-08-09 (defaults to the first day)`)
	cmd.Flags().String("room", "", "List only this room")
	cmd.Flags().String("code", "", "Also show the session with this code")
	return cmd
}
