package cli

import (
	"context"
	"io"

	"baby-tracker/internal/adapters/storage"
	"baby-tracker/internal/config"
	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/timeline"
	"baby-tracker/internal/hub"
	"baby-tracker/internal/platform/logger"
)

// app es todo lo que un comando local necesita: store abierto e inicializado,
// servicio, builder y hub de cambios.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	opened  *storage.Opened
	svc     *events.Service
	builder *timeline.Builder
	hub     *hub.Hub
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Resolve(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts *RootOptions) error {
	err := cfg.Override(config.Overrides{
		Driver:   opts.Store,
		Path:     opts.File,
		LogLevel: opts.LogLevel,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    cfg.Logging.App,
		Output: w,
	})
}

func openApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	schema, err := cfg.Schema()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid schema", err)
	}

	opened, err := storage.Open(cfg.Store, schema, log)
	if err != nil {
		return nil, failed("failed to open store", err)
	}
	if err := opened.Store.Initialize(ctx); err != nil {
		_ = opened.Close()
		return nil, failed("failed to initialize store", err)
	}

	h := hub.New()
	return &app{
		cfg:    cfg,
		log:    log,
		opened: opened,
		svc: events.NewService(opened.Store, schema, events.Options{
			Window:   cfg.Table.Window,
			Logger:   log,
			OnChange: h.Notify,
		}),
		builder: timeline.NewBuilder(schema.Location()),
		hub:     h,
	}, nil
}

func (a *app) Close() error {
	a.hub.Close()
	return a.opened.Close()
}
