package timeline

import (
	"time"

	"baby-tracker/internal/domain/events"
)

// Category es la fila del gráfico. Poo y Pee comparten Potty.
type Category string

const (
	CategoryFeeding Category = "Feeding"
	CategoryPotty   Category = "Potty"
	CategorySleep   Category = "Sleep"
)

const (
	ColorPoo   = "brown"
	ColorPee   = "yellow"
	ColorFood  = "blue"
	ColorSleep = "green"
)

// ReferenceDate: todos los intervalos se proyectan sobre este día para compartir eje horario.
var ReferenceDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Interval es un tramo dibujable, acotado a un día calendario.
type Interval struct {
	Kind     events.Kind `json:"kind"`
	Category Category    `json:"category"`
	Day      time.Time   `json:"day"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// RefStart/RefEnd: misma hora del día sobre ReferenceDate.
	RefStart time.Time `json:"ref_start"`
	RefEnd   time.Time `json:"ref_end"`

	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
	Comment string `json:"comment,omitempty"`
}

// Day agrupa los intervalos de una fila del gráfico.
type Day struct {
	Day       time.Time  `json:"day"`
	Intervals []Interval `json:"intervals"`
}
