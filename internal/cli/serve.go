package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baby-tracker/internal/router"
	"baby-tracker/internal/watch"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	*RootOptions
	Addr    string
	NoWatch bool

	// ready recibe la dirección real de escucha (para tests con :0).
	ready func(addr string)
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Servir la API HTTP",
		Long: `Levanta la API (formulario, tabla, timeline, resumen y websocket de cambios).
Con el driver csv también vigila el archivo: si se edita por fuera, los clientes
del websocket reciben store_changed.

Example:
  babylog serve --addr :8080
  babylog serve --store sqlite --file ./baby.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "do not watch the CSV file for external edits")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info("received signal, shutting down", map[string]any{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("closing store", map[string]any{"error": err.Error()})
		}
	}()

	if a.opened.CSV != nil && cfg.Store.Watch && !opts.NoWatch {
		w, err := watch.New(a.opened.CSV.Path(), watch.DefaultDebounce, log)
		if err != nil {
			// sin watcher la API sigue funcionando; solo se pierden los avisos externos
			log.Warn("file watcher disabled", map[string]any{"error": err.Error()})
		} else {
			go w.Run(ctx, func(watch.Event) {
				a.opened.CSV.Invalidate()
				a.hub.Notify("external")
			})
		}
	}

	srv := &http.Server{
		Handler: router.NewRouter(router.Options{
			Service:      a.svc,
			Builder:      a.builder,
			Hub:          a.hub,
			Logger:       log,
			TrailingDays: cfg.Timeline.TrailingDays,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}

	log.Info("starting server", map[string]any{
		"addr":   ln.Addr().String(),
		"driver": cfg.Store.Driver,
		"store":  storeLabel(cfg),
	})
	if opts.ready != nil {
		opts.ready(ln.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	// cerrar el hub primero corta los websockets, que Shutdown no espera
	a.hub.Close()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown", err)
	}
	log.Info("server stopped", nil)
	return nil
}
