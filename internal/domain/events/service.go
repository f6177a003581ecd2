package events

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"baby-tracker/internal/domain/events/details"
	"baby-tracker/internal/platform/logger"
)

type Service struct {
	store      Store
	schema     Schema
	reconciler Reconciler
	window     int
	log        logger.Logger
	onChange   func(reason string)
	now        func() time.Time
}

type Options struct {
	Window int // filas de la tabla; default DefaultWindow
	Logger logger.Logger
	// OnChange se llama después de cada mutación exitosa (p.ej. para avisar por websocket).
	OnChange func(reason string)
}

func NewService(store Store, schema Schema, opts Options) *Service {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:    store,
		schema:   schema,
		window:   window,
		log:      log.With(map[string]any{"component": "events"}),
		onChange: opts.OnChange,
		now:      time.Now,
	}
}

func (s *Service) Schema() Schema { return s.schema }
func (s *Service) Window() int    { return s.window }

// Now es el helper del botón "Now": la hora actual como celda Start.
func (s *Service) Now() string {
	return FormatStart(s.now().In(s.schema.Location()))
}

type CreateInput struct {
	Kind    Kind
	Start   time.Time
	End     time.Time // vacío en Poo/Pee
	Source  details.FeedSource
	Ounces  float64
	Size    details.PottySize
	Quality details.SleepQuality
	Comment string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	comment := strings.TrimSpace(in.Comment)

	var (
		e   Event
		err error
	)
	switch in.Kind {
	case KindFood:
		e, err = NewFeeding(in.Start, in.End, in.Source, in.Ounces, comment)
	case KindPoo, KindPee:
		e, err = NewPotty(in.Kind, in.Start, in.Size, comment)
	case KindSleep:
		e, err = NewSleep(in.Start, in.End, in.Quality, comment)
	default:
		err = fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, in.Kind)
	}
	if err != nil {
		return Event{}, err
	}

	if err := s.store.Append(ctx, e); err != nil {
		s.log.Warn("append failed", map[string]any{"kind": string(e.Kind), "error": err.Error()})
		return Event{}, err
	}
	s.log.Debug("event appended", map[string]any{"kind": string(e.Kind), "start": FormatStart(e.Start)})
	s.changed("append")
	return e, nil
}

// View es lo que muestra la tabla: columnas + filas más reciente primero.
type View struct {
	Columns []string
	Rows    []Record
}

// Recent devuelve las últimas n filas (n fuera de [1, window] usa window).
func (s *Service) Recent(ctx context.Context, n int) (View, error) {
	n = s.clampWindow(n)
	rows, err := s.store.ReadRecent(ctx, n)
	if err != nil {
		return View{}, err
	}
	return View{Columns: s.store.Columns(), Rows: rows}, nil
}

// Reconcile aplica la vista editada de la tabla. La vista conocida se relee del store
// con el mismo tamaño n con el que la tabla fue pedida.
func (s *Service) Reconcile(ctx context.Context, n int, edited []Record) (Outcome, error) {
	n = s.clampWindow(n)
	lastKnown, err := s.store.ReadRecent(ctx, n)
	if err != nil {
		return Outcome{}, err
	}

	out, err := s.reconciler.Reconcile(ctx, edited, lastKnown, s.store)
	if err != nil {
		s.log.Warn("reconcile rejected", map[string]any{
			"edited":     len(edited),
			"last_known": len(lastKnown),
			"error":      err.Error(),
		})
		return Outcome{}, err
	}

	s.log.Info("table reconciled", map[string]any{"action": string(out.Action), "rows": len(edited)})
	s.changed(string(out.Action))
	return out, nil
}

// Events devuelve todo el log decodificado, más antiguo primero.
func (s *Service) Events(ctx context.Context) ([]Event, error) {
	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.schema.DecodeAll(records)
}

// Records devuelve todo el log crudo, más antiguo primero.
func (s *Service) Records(ctx context.Context) ([]Record, error) {
	return s.store.ReadAll(ctx)
}

// List busca en el historial. Orden por Start desc (más reciente primero).
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	all, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > s.window {
		limit = s.window
	}

	out := make([]Event, 0)
	for _, e := range all {
		if len(filter.Kinds) > 0 {
			ok := false
			for _, k := range filter.Kinds {
				if e.Kind == k {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		if filter.From != nil && e.Start.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Start.After(*filter.To) {
			continue
		}
		if q := strings.TrimSpace(filter.Query); q != "" {
			if !strings.Contains(strings.ToLower(e.Comment), strings.ToLower(q)) {
				continue
			}
		}
		out = append(out, e)
	}

	// estable: a igual Start queda primero el último insertado
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.After(out[j].Start)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Summary resume los últimos days días (ver Summarize).
func (s *Service) Summary(ctx context.Context, days int) ([]DaySummary, error) {
	all, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(all, days, s.schema.Location()), nil
}

func (s *Service) clampWindow(n int) int {
	if n <= 0 || n > s.window {
		return s.window
	}
	return n
}

func (s *Service) changed(reason string) {
	if s.onChange != nil {
		s.onChange(reason)
	}
}
