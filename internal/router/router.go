package router

import (
	"net/http"

	_ "baby-tracker/internal/docs"
	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/timeline"
	"baby-tracker/internal/hub"
	"baby-tracker/internal/middleware"
	"baby-tracker/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Service *events.Service
	Builder *timeline.Builder

	// Hub puede ser nil: entonces no se expone /api/events/ws.
	Hub    *hub.Hub
	Logger logger.Logger

	// TrailingDays es el default de /api/timeline.
	TrailingDays int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	builder := opts.Builder
	if builder == nil {
		builder = timeline.NewBuilder(opts.Service.Schema().Location())
	}
	days := opts.TrailingDays
	if days <= 0 {
		days = timeline.DefaultTrailingDays
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Hub != nil {
		r.Get("/api/events/ws", hub.ServeWS(opts.Hub, log))
	}

	// Rutas por módulo
	events.RegisterRoutes(r, opts.Service)
	timeline.RegisterRoutes(r, opts.Service, builder, days)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
