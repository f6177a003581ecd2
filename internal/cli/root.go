// Package cli arma el comando babylog.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions son los flags globales de todos los comandos.
type RootOptions struct {
	ConfigPath string
	File       string
	Store      string
	Server     string
	Format     string // "text" | "json"
	LogLevel   string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "babylog",
		Short: "Registro de tomas, pañales y sueño del bebé",
		Long: `babylog guarda cada toma, pañal y siesta en un CSV (o SQLite/Postgres),
permite corregir las últimas filas como una tabla y dibuja un timeline por día.

Sin --server los comandos abren el store directamente; con --server hablan con
un "babylog serve" que ya está corriendo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ~/.config/babylog/config.yaml if present)")
	pf.StringVarP(&opts.File, "file", "f", "", "store path (CSV or SQLite file)")
	pf.StringVar(&opts.Store, "store", "", "store driver (csv|memory|sqlite|postgres)")
	pf.StringVar(&opts.Server, "server", "", "base URL of a running babylog server")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewTimelineCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))

	return cmd
}
