package events

import (
	"fmt"
	"math"
	"time"

	"baby-tracker/internal/domain/events/details"
)

// Event es un registro de cuidado del bebé.
// Es una variante etiquetada por Kind: solo el detalle que corresponde al tipo puede venir seteado.
type Event struct {
	Kind     Kind
	Start    time.Time
	Duration time.Duration
	Comment  string

	Feeding *details.Feeding // solo Food
	Potty   *details.Potty   // solo Poo/Pee
	Sleep   *details.Sleep   // solo Sleep
}

// End es Start+Duration. Para eventos puntuales coincide con Start.
func (e Event) End() time.Time {
	return e.Start.Add(e.Duration)
}

// Validate revisa que los campos aplicables al tipo sean coherentes.
func (e Event) Validate() error {
	if _, ok := ParseKind(string(e.Kind)); !ok {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, e.Kind)
	}
	if e.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}
	if e.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	if e.Kind.IsPotty() && e.Duration != 0 {
		return fmt.Errorf("%w: %s events have no duration", ErrInvalidInput, e.Kind)
	}

	if e.Feeding != nil && e.Kind != KindFood {
		return fmt.Errorf("%w: feeding details only apply to Food", ErrInvalidInput)
	}
	if e.Potty != nil && !e.Kind.IsPotty() {
		return fmt.Errorf("%w: potty details only apply to Poo/Pee", ErrInvalidInput)
	}
	if e.Sleep != nil && e.Kind != KindSleep {
		return fmt.Errorf("%w: sleep details only apply to Sleep", ErrInvalidInput)
	}

	if e.Kind == KindFood {
		if e.Feeding == nil {
			return fmt.Errorf("%w: food events need a source", ErrInvalidInput)
		}
		if _, ok := details.ParseFeedSource(string(e.Feeding.Source)); !ok {
			return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, e.Feeding.Source)
		}
		if e.Feeding.Ounces < 0 || math.IsNaN(e.Feeding.Ounces) || math.IsInf(e.Feeding.Ounces, 0) {
			return fmt.Errorf("%w: ounces must be a non-negative number", ErrInvalidInput)
		}
		if e.Feeding.Source != details.FeedSourceBottle && e.Feeding.Ounces != 0 {
			return fmt.Errorf("%w: ounces only apply to bottle feeds", ErrInvalidInput)
		}
	}
	if e.Potty != nil && e.Potty.Size != "" {
		if _, ok := details.ParsePottySize(string(e.Potty.Size)); !ok {
			return fmt.Errorf("%w: unknown size %q", ErrInvalidInput, e.Potty.Size)
		}
	}
	if e.Sleep != nil && e.Sleep.Quality != "" {
		if _, ok := details.ParseSleepQuality(string(e.Sleep.Quality)); !ok {
			return fmt.Errorf("%w: unknown quality %q", ErrInvalidInput, e.Sleep.Quality)
		}
	}
	return nil
}

// NewFeeding arma un evento Food a partir de inicio/fin, como lo hace el formulario.
func NewFeeding(start, end time.Time, source details.FeedSource, ounces float64, comment string) (Event, error) {
	d, err := elapsed(start, end)
	if err != nil {
		return Event{}, err
	}
	e := Event{
		Kind:     KindFood,
		Start:    truncateMinute(start),
		Duration: d,
		Comment:  comment,
		Feeding:  &details.Feeding{Source: source, Ounces: ounces},
	}
	return e, e.Validate()
}

// NewPotty arma un evento puntual Poo/Pee. size puede venir vacío.
func NewPotty(kind Kind, at time.Time, size details.PottySize, comment string) (Event, error) {
	if !kind.IsPotty() {
		return Event{}, fmt.Errorf("%w: %q is not a potty type", ErrInvalidInput, kind)
	}
	e := Event{
		Kind:    kind,
		Start:   truncateMinute(at),
		Comment: comment,
	}
	if size != "" {
		e.Potty = &details.Potty{Size: size}
	}
	return e, e.Validate()
}

// NewSleep arma un evento Sleep. quality puede venir vacío.
func NewSleep(start, end time.Time, quality details.SleepQuality, comment string) (Event, error) {
	d, err := elapsed(start, end)
	if err != nil {
		return Event{}, err
	}
	e := Event{
		Kind:     KindSleep,
		Start:    truncateMinute(start),
		Duration: d,
		Comment:  comment,
	}
	if quality != "" {
		e.Sleep = &details.Sleep{Quality: quality}
	}
	return e, e.Validate()
}

func elapsed(start, end time.Time) (time.Duration, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	start, end = truncateMinute(start), truncateMinute(end)
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end is before start", ErrInvalidInput)
	}
	return end.Sub(start), nil
}

func truncateMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}
