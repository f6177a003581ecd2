package details

import "strings"

type SleepQuality string

const (
	SleepQualityPoor   SleepQuality = "Poor"
	SleepQualityNormal SleepQuality = "Normal"
	SleepQualityGreat  SleepQuality = "Great"
)

func ParseSleepQuality(s string) (SleepQuality, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "poor":
		return SleepQualityPoor, true
	case "normal":
		return SleepQualityNormal, true
	case "great":
		return SleepQualityGreat, true
	default:
		return "", false
	}
}

// Sleep es el detalle opcional de una siesta, solo en el schema extendido.
type Sleep struct {
	Quality SleepQuality
}
