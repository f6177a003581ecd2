package events

import "strings"

// Kind es el discriminante del evento (columna "Event Type").
type Kind string

const (
	KindFood  Kind = "Food"
	KindPoo   Kind = "Poo"
	KindPee   Kind = "Pee"
	KindSleep Kind = "Sleep"
)

// AllKinds en el orden en que se muestran en formularios y leyendas.
var AllKinds = []Kind{KindFood, KindPoo, KindPee, KindSleep}

func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "food":
		return KindFood, true
	case "poo":
		return KindPoo, true
	case "pee":
		return KindPee, true
	case "sleep":
		return KindSleep, true
	default:
		return "", false
	}
}

// IsPotty: Poo y Pee comparten fila/categoría en el timeline.
func (k Kind) IsPotty() bool {
	return k == KindPoo || k == KindPee
}

// HasDuration indica si el tipo registra inicio y fin (Food, Sleep).
func (k Kind) HasDuration() bool {
	return k == KindFood || k == KindSleep
}
