package details

import "strings"

type PottySize string

const (
	PottySizeSmall  PottySize = "Small"
	PottySizeNormal PottySize = "Normal"
	PottySizeBig    PottySize = "Big"
)

func ParsePottySize(s string) (PottySize, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return PottySizeSmall, true
	case "normal":
		return PottySizeNormal, true
	case "big":
		return PottySizeBig, true
	default:
		return "", false
	}
}

// Potty es el detalle opcional de un pañal (Poo/Pee), solo en el schema extendido.
type Potty struct {
	Size PottySize
}
