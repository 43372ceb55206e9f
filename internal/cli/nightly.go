package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// NightlyOptions holds flags for the nightly command.
type NightlyOptions struct {
	*RootOptions
	At string
}

// NewNightlyCommand creates the nightly command.
func NewNightlyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NightlyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "nightly",
		Short: "Run the nightly reminder pass once",
		Long: `Run the nightly reminder pass once and print the run report as JSON.

The run is keyed by the UTC date of --at. A run that already completed for that
date is reported as skipped.

Example:
  musehabit nightly
  musehabit nightly --at 2025-03-10T07:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseInstant(opts.At, time.Now())
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.nightly.Run(cmd.Context(), at)
			if err != nil {
				return fmt.Errorf("nightly run failed: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "run instant in RFC3339 (default now)")

	return cmd
}

// parseInstant parses an RFC3339 flag value, returning def when it is empty.
func parseInstant(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q, want RFC3339: %w", value, err)
	}
	return t, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
