package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/musehabit-server/internal/cadence"
	"github.com/dtroode/musehabit-server/internal/notify"
)

// CadenceOptions holds flags for the cadence command.
type CadenceOptions struct {
	Joined string
	Latest string
	Now    string
}

type cadenceOutput struct {
	CanPost           bool   `json:"can_post"`
	DaysUntilNextPost int    `json:"days_until_next_post"`
	State             string `json:"state"`
	Anchor            string `json:"anchor"`
	NextEligibleAt    string `json:"next_eligible_at"`
	Threshold         string `json:"threshold,omitempty"`
	Warning           string `json:"warning,omitempty"`
}

// NewCadenceCommand creates the cadence command. It needs no database.
func NewCadenceCommand(_ *RootOptions) *cobra.Command {
	opts := &CadenceOptions{}

	cmd := &cobra.Command{
		Use:   "cadence",
		Short: "Evaluate a posting cadence record",
		Long: `Evaluate a cadence record and print the result as JSON.

Example:
  musehabit cadence --joined 2025-01-01T00:00:00Z
  musehabit cadence --joined 2025-01-01T00:00:00Z --latest 2025-02-20T18:00:00Z --now 2025-03-01T00:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := evaluateCadence(opts, time.Now())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&opts.Joined, "joined", "", "join instant in RFC3339 (required)")
	cmd.Flags().StringVar(&opts.Latest, "latest", "", "latest post instant in RFC3339")
	cmd.Flags().StringVar(&opts.Now, "now", "", "evaluation instant in RFC3339 (default now)")
	_ = cmd.MarkFlagRequired("joined")

	return cmd
}

func evaluateCadence(opts *CadenceOptions, wallClock time.Time) (cadenceOutput, error) {
	joined, err := parseInstant(opts.Joined, time.Time{})
	if err != nil {
		return cadenceOutput{}, err
	}
	now, err := parseInstant(opts.Now, wallClock)
	if err != nil {
		return cadenceOutput{}, err
	}

	var latest *time.Time
	if opts.Latest != "" {
		t, err := parseInstant(opts.Latest, time.Time{})
		if err != nil {
			return cadenceOutput{}, err
		}
		latest = &t
	}

	res := cadence.Evaluate(joined, latest, now)
	out := cadenceOutput{
		CanPost:           res.CanPost,
		DaysUntilNextPost: res.DaysUntilNextPost,
		State:             string(res.State),
		Anchor:            res.Anchor.UTC().Format(time.RFC3339),
		NextEligibleAt:    res.NextEligibleAt.UTC().Format(time.RFC3339),
	}
	if th, ok := notify.Lookup(res); ok {
		out.Threshold = th.Key
	}
	if err := cadence.Validate(joined, latest, now); err != nil {
		out.Warning = err.Error()
	}
	return out, nil
}
