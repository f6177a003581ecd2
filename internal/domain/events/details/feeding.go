package details

import "strings"

// FeedSource indica de dónde vino la toma.
type FeedSource string

const (
	FeedSourceLeft   FeedSource = "Left"
	FeedSourceRight  FeedSource = "Right"
	FeedSourceBottle FeedSource = "Bottle"
)

// ParseFeedSource acepta el valor sin importar mayúsculas ("left", "BOTTLE").
func ParseFeedSource(s string) (FeedSource, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return FeedSourceLeft, true
	case "right":
		return FeedSourceRight, true
	case "bottle":
		return FeedSourceBottle, true
	default:
		return "", false
	}
}

// Feeding es el detalle de un evento Food.
// Ounces solo aplica cuando Source es Bottle.
type Feeding struct {
	Source FeedSource
	Ounces float64
}
