package timeline

import (
	"fmt"
	"sort"
	"time"

	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/events/details"
)

const (
	DefaultTrailingDays = 7
	// PointWidth es el ancho mínimo visible para eventos sin duración (pañales).
	PointWidth = 10 * time.Minute
)

// Builder deriva intervalos del log completo.
type Builder struct {
	location *time.Location
}

func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{location: loc}
}

// BuildRecords decodifica el log crudo y construye. Cualquier fila ilegible
// (ErrMalformedDuration incluido) aborta todo: no hay gráficos parciales.
func (b *Builder) BuildRecords(schema events.Schema, records []events.Record, trailingDays int) ([]Interval, error) {
	all, err := schema.WithLocation(b.location).DecodeAll(records)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	return b.Build(all, trailingDays), nil
}

// Build arma los intervalos de los últimos trailingDays días, más antiguo primero.
//
// Se filtra primero con un día extra hacia atrás para no perder la parte de un evento que
// cruza medianoche; después de partir se recorta a trailingDays días que terminan en el día
// del último evento. Si ese evento cruza medianoche su segunda mitad se conserva, aunque
// caiga en el día siguiente.
func (b *Builder) Build(all []events.Event, trailingDays int) []Interval {
	if len(all) == 0 {
		return []Interval{}
	}
	if trailingDays <= 0 {
		trailingDays = DefaultTrailingDays
	}

	var latest time.Time
	for _, e := range all {
		if d := b.day(e.Start); d.After(latest) {
			latest = d
		}
	}
	lookback := latest.AddDate(0, 0, -(trailingDays + 1))

	out := make([]Interval, 0, len(all))
	for _, e := range all {
		d := b.day(e.Start)
		if d.Before(lookback) || d.After(latest) {
			continue
		}
		out = append(out, b.split(e)...)
	}

	from := latest.AddDate(0, 0, -(trailingDays - 1))

	kept := out[:0]
	for _, iv := range out {
		if iv.Day.Before(from) {
			continue
		}
		kept = append(kept, iv)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Day.Before(kept[j].Day)
	})
	return kept
}

// split devuelve uno o dos intervalos. Si cruza medianoche, la primera mitad termina a las
// 23:59 y la segunda arranca a las 00:00 con lo que falta de la duración, así la suma de
// ambas barras es igual a la duración del evento.
func (b *Builder) split(e events.Event) []Interval {
	start := e.Start.In(b.location)
	dur := e.Duration
	if dur <= 0 {
		dur = PointWidth
	}
	end := start.Add(dur)

	startDay := b.day(start)
	endDay := b.day(end)
	if startDay.Equal(endDay) {
		return []Interval{b.interval(e, startDay, start, end)}
	}

	firstEnd := b.lastMinute(startDay)
	before := firstEnd.Sub(start)
	secondEnd := endDay.Add(dur - before)
	if limit := b.lastMinute(endDay); secondEnd.After(limit) {
		secondEnd = limit
	}

	return []Interval{
		b.interval(e, startDay, start, firstEnd),
		b.interval(e, endDay, endDay, secondEnd),
	}
}

func (b *Builder) interval(e events.Event, day, start, end time.Time) Interval {
	return Interval{
		Kind:     e.Kind,
		Category: CategoryOf(e.Kind),
		Day:      day,
		Start:    start,
		End:      end,
		RefStart: onReference(start),
		RefEnd:   onReference(end),
		Color:    ColorOf(e.Kind),
		Tooltip:  Tooltip(e),
		Comment:  e.Comment,
	}
}

func (b *Builder) day(t time.Time) time.Time {
	t = t.In(b.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, b.location)
}

func (b *Builder) lastMinute(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, b.location)
}

func onReference(t time.Time) time.Time {
	return time.Date(ReferenceDate.Year(), ReferenceDate.Month(), ReferenceDate.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func CategoryOf(k events.Kind) Category {
	switch k {
	case events.KindFood:
		return CategoryFeeding
	case events.KindSleep:
		return CategorySleep
	default:
		return CategoryPotty
	}
}

func ColorOf(k events.Kind) string {
	switch k {
	case events.KindPoo:
		return ColorPoo
	case events.KindPee:
		return ColorPee
	case events.KindFood:
		return ColorFood
	case events.KindSleep:
		return ColorSleep
	default:
		return "gray"
	}
}

// Tooltip depende de la categoría: pañal solo el tipo, sueño la duración, toma la fuente
// con onzas (biberón) o duración (pecho).
func Tooltip(e events.Event) string {
	switch {
	case e.Kind.IsPotty():
		return string(e.Kind)
	case e.Kind == events.KindSleep:
		return "Sleep: " + events.FormatDuration(e.Duration)
	case e.Feeding != nil && e.Feeding.Source == details.FeedSourceBottle:
		return fmt.Sprintf("Bottle: %.1f oz", e.Feeding.Ounces)
	case e.Feeding != nil:
		return fmt.Sprintf("%s: %s", e.Feeding.Source, events.FormatDuration(e.Duration))
	default:
		return fmt.Sprintf("%s: %s", e.Kind, events.FormatDuration(e.Duration))
	}
}

// GroupByDay arma las filas del gráfico. Espera la salida de Build (ordenada por día).
func GroupByDay(intervals []Interval) []Day {
	out := make([]Day, 0)
	for _, iv := range intervals {
		if n := len(out); n > 0 && out[n-1].Day.Equal(iv.Day) {
			out[n-1].Intervals = append(out[n-1].Intervals, iv)
			continue
		}
		out = append(out, Day{Day: iv.Day, Intervals: []Interval{iv}})
	}
	return out
}
