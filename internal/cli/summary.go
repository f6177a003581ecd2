package cli

import (
	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/presentation"

	"github.com/spf13/cobra"
)

type summaryOptions struct {
	*RootOptions
	Days int
}

func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &summaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totales por día",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.RootOptions)
			if err != nil {
				return err
			}
			days := opts.Days
			if days <= 0 {
				days = cfg.Timeline.TrailingDays
			}

			b, err := newBackend(cmd.Context(), opts.RootOptions, cfg, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer b.Close()

			sums, err := b.Summary(cmd.Context(), days)
			if err != nil {
				return failed("failed to summarize", err)
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				resp := make([]events.DaySummaryResponse, 0, len(sums))
				for _, s := range sums {
					resp = append(resp, events.NewDaySummaryResponse(s))
				}
				return printJSON(out, resp)
			}
			return presentation.RenderSummary(out, sums)
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 0, "trailing days (default timeline.trailing_days)")
	return cmd
}
