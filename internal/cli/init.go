package cli

import (
	"fmt"

	"baby-tracker/internal/config"

	"github.com/spf13/cobra"
)

func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Crear la config y el store si no existen",
		Long: `Escribe la config por defecto si falta y crea el store con su header.
Un store existente no se toca; si su header no coincide con el schema configurado falla.

Example:
  babylog init
  babylog init --config ./babylog.yaml --file ./baby_log.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.ConfigPath
			if path == "" {
				path = config.DefaultConfigPath
			}
			cfg, err := config.LoadOrCreateAt(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if err := applyOverrides(cfg, rootOpts); err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), cfg, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return printJSON(out, map[string]any{
					"config":  path,
					"driver":  cfg.Store.Driver,
					"path":    cfg.Store.Path,
					"columns": a.svc.Schema().Columns(),
				})
			}
			_, err = fmt.Fprintf(out, "store ready: %s (%s)\n", storeLabel(cfg), cfg.Store.Driver)
			return err
		},
	}
}

func storeLabel(cfg *config.Config) string {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return "postgres"
	case config.DriverMemory:
		return "memory"
	default:
		return cfg.Store.Path
	}
}
