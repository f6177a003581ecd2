package events

import (
	"time"

	"baby-tracker/internal/domain/events/details"
)

// DaySummary son los totales de un día calendario.
type DaySummary struct {
	Day            time.Time
	Feeds          int
	BottleOunces   float64
	NursingMinutes int
	SleepMinutes   int
	Poos           int
	Pees           int
}

// Summarize agrupa por día de inicio los últimos days días, contando hacia atrás desde el día
// del evento más reciente. Devuelve los días con actividad, más antiguo primero.
func Summarize(all []Event, days int, loc *time.Location) []DaySummary {
	if len(all) == 0 {
		return []DaySummary{}
	}
	if days <= 0 {
		days = 7
	}
	if loc == nil {
		loc = time.Local
	}

	var latest time.Time
	for _, e := range all {
		if d := dayOf(e.Start, loc); d.After(latest) {
			latest = d
		}
	}
	from := latest.AddDate(0, 0, -(days - 1))

	byDay := map[string]*DaySummary{}
	for _, e := range all {
		d := dayOf(e.Start, loc)
		if d.Before(from) || d.After(latest) {
			continue
		}
		key := d.Format(time.DateOnly)
		sum, ok := byDay[key]
		if !ok {
			sum = &DaySummary{Day: d}
			byDay[key] = sum
		}

		switch e.Kind {
		case KindFood:
			sum.Feeds++
			if e.Feeding != nil && e.Feeding.Source == details.FeedSourceBottle {
				sum.BottleOunces += e.Feeding.Ounces
			} else {
				sum.NursingMinutes += int(e.Duration / time.Minute)
			}
		case KindSleep:
			sum.SleepMinutes += int(e.Duration / time.Minute)
		case KindPoo:
			sum.Poos++
		case KindPee:
			sum.Pees++
		}
	}

	out := make([]DaySummary, 0, len(byDay))
	for d := from; !d.After(latest); d = d.AddDate(0, 0, 1) {
		if sum, ok := byDay[d.Format(time.DateOnly)]; ok {
			out = append(out, *sum)
		}
	}
	return out
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
