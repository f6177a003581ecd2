package cli

import (
	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/presentation"

	"github.com/spf13/cobra"
)

type listOptions struct {
	*RootOptions
	N int
}

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &listOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Mostrar las últimas filas del log",
		Long: `Muestra las últimas n filas, la más reciente primero, tal como las ve la tabla.

Example:
  babylog list -n 20
  babylog list --server http://localhost:8080 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.RootOptions)
			if err != nil {
				return err
			}
			b, err := newBackend(cmd.Context(), opts.RootOptions, cfg, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer b.Close()

			view, err := b.Recent(cmd.Context(), opts.N)
			if err != nil {
				return failed("failed to read events", err)
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return printJSON(out, events.NewViewResponse(view))
			}
			return presentation.RenderTable(out, view.Columns, view.Rows)
		},
	}

	cmd.Flags().IntVarP(&opts.N, "n", "n", 20, "number of rows (capped at table.window)")
	return cmd
}
