package cli

import (
	"fmt"
	"strings"
	"time"

	"baby-tracker/internal/domain/events"

	"github.com/spf13/cobra"
)

type addOptions struct {
	*RootOptions
	Start   string
	End     string
	Source  string
	Ounces  float64
	Size    string
	Quality string
	Comment string
}

func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Registrar una toma, un pañal o una siesta",
	}
	cmd.AddCommand(newAddFeedCommand(rootOpts))
	cmd.AddCommand(newAddPottyCommand(rootOpts))
	cmd.AddCommand(newAddSleepCommand(rootOpts))
	return cmd
}

func newAddFeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &addOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Registrar una toma",
		Long: `Registra una toma de pecho o de mamadera. La duración es end - start.

Example:
  babylog add feed --start "2024-03-01 08:00 AM" --end "2024-03-01 08:20 AM" --source Left
  babylog add feed --end "2024-03-01 09:10 AM" --source Bottle --ounces 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := opts.request(events.KindFood)
			req.Source = opts.Source
			if cmd.Flags().Changed("ounces") {
				oz := opts.Ounces
				req.Ounces = &oz
			}
			return runAdd(cmd, opts, req)
		},
	}

	opts.timeFlags(cmd, true)
	cmd.Flags().StringVar(&opts.Source, "source", "", "Left, Right or Bottle (required)")
	cmd.Flags().Float64Var(&opts.Ounces, "ounces", 0, "bottle ounces")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newAddPottyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &addOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "potty <poo|pee>",
		Short: "Registrar un pañal",
		Long: `Registra un pañal. No lleva duración; el timeline lo muestra con 10 minutos.

Example:
  babylog add potty pee
  babylog add potty poo --start "2024-03-01 10:00 AM" --comment "after bath"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"poo", "pee"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := events.ParseKind(args[0])
			if !ok || !kind.IsPotty() {
				return NewExitError(ExitCommandError, fmt.Sprintf("potty kind must be poo or pee, got %q", args[0]))
			}
			req := opts.request(kind)
			req.Size = opts.Size
			return runAdd(cmd, opts, req)
		},
	}

	opts.timeFlags(cmd, false)
	cmd.Flags().StringVar(&opts.Size, "size", "", "Small, Normal or Big (needs the Size column)")
	return cmd
}

func newAddSleepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &addOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Registrar una siesta",
		Long: `Registra una siesta. Puede cruzar la medianoche.

Example:
  babylog add sleep --start "2024-03-01 11:30 PM" --end "2024-03-02 02:10 AM"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := opts.request(events.KindSleep)
			req.Quality = opts.Quality
			return runAdd(cmd, opts, req)
		},
	}

	opts.timeFlags(cmd, true)
	cmd.Flags().StringVar(&opts.Quality, "quality", "", "Poor, Normal or Great (needs the Quality column)")
	return cmd
}

func (o *addOptions) timeFlags(cmd *cobra.Command, withEnd bool) {
	layout := events.StartLayout
	cmd.Flags().StringVar(&o.Start, "start", "", fmt.Sprintf("start time (%s); default now", layout))
	if withEnd {
		cmd.Flags().StringVar(&o.End, "end", "", fmt.Sprintf("end time (%s); default now", layout))
	}
	cmd.Flags().StringVar(&o.Comment, "comment", "", "free text")
}

func (o *addOptions) request(kind events.Kind) events.CreateRequest {
	return events.CreateRequest{
		Kind:    kind,
		Start:   o.Start,
		End:     o.End,
		Comment: o.Comment,
	}
}

func runAdd(cmd *cobra.Command, opts *addOptions, req events.CreateRequest) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	// start/end omitidos son "ahora" en la zona configurada
	loc, err := cfg.Location()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid timezone", err)
	}
	now := events.FormatStart(time.Now().In(loc))
	req.Start = orDefault(req.Start, now)
	if req.Kind.HasDuration() {
		req.End = orDefault(req.End, now)
	}

	b, err := newBackend(cmd.Context(), opts.RootOptions, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	e, err := b.Add(cmd.Context(), req)
	if err != nil {
		return failed("failed to add event", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return printJSON(out, e)
	}
	line := fmt.Sprintf("added %s at %s", e.Kind, e.Start)
	if e.Duration != "" {
		line += " (" + e.Duration + ")"
	}
	_, err = fmt.Fprintln(out, line)
	return err
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
