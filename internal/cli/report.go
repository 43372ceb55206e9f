package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/musehabit-server/internal/model"
)

type runOutput struct {
	Status model.RunStatus `json:"status"`
	model.RunReport
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the recorded nightly run for a UTC date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runDate := time.Now().UTC()
			if date != "" {
				var err error
				runDate, err = time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
				}
			}

			a, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.close()

			report, status, err := a.nightly.Report(cmd.Context(), runDate)
			if err != nil {
				return fmt.Errorf("failed to load run for %s: %w", runDate.Format(time.DateOnly), err)
			}
			return writeJSON(cmd.OutOrStdout(), runOutput{Status: status, RunReport: report})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "run date YYYY-MM-DD (default today, UTC)")

	return cmd
}
