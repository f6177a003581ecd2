package cli

import (
	"fmt"
	"io"
	"os"

	"baby-tracker/internal/domain/timeline"
	"baby-tracker/internal/presentation"

	"github.com/spf13/cobra"
)

type timelineOptions struct {
	*RootOptions
	Days  int
	Width int
	Color string
}

func NewTimelineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &timelineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Dibujar los últimos días en el terminal",
		Long: `Dibuja un bloque por día con una fila por categoría (Feeding, Potty, Sleep)
sobre un eje de 24 horas. Los eventos que cruzan la medianoche se parten.

Example:
  babylog timeline --days 3
  babylog timeline --color never --width 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := parseColorMode(opts.Color)
			if err != nil {
				return err
			}

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

			grouped, err := b.Timeline(cmd.Context(), days)
			if err != nil {
				return failed("failed to build timeline", err)
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, timeline.NewResponse(grouped))
			}

			f, isFile := out.(*os.File)
			width := opts.Width
			if width <= 0 {
				width = 100
				if isFile {
					width = presentation.TerminalWidth(f)
				}
			}
			return presentation.RenderTimeline(out, grouped, presentation.TimelineOptions{
				Width: width,
				Color: color.enabled(out),
			})
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 0, "trailing days (default timeline.trailing_days)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "line width (default terminal width)")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "colored bars (auto|always|never)")
	return cmd
}

type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

func parseColorMode(s string) (colorMode, error) {
	switch m := colorMode(s); m {
	case colorAuto, colorAlways, colorNever:
		return m, nil
	default:
		return "", NewExitError(ExitCommandError, fmt.Sprintf("invalid color mode %q: must be auto, always or never", s))
	}
}

func (m colorMode) enabled(w io.Writer) bool {
	switch m {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && presentation.IsTerminal(f)
}
