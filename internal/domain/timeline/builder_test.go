package timeline

import (
	"testing"
	"time"

	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/events/details"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func clock(day, h, m int) time.Time {
	return day1.AddDate(0, 0, day).Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func ref(h, m int) time.Time {
	return time.Date(2000, time.January, 1, h, m, 0, 0, time.UTC)
}

func feed(t *testing.T, start time.Time, minutes int, src details.FeedSource, oz float64) events.Event {
	t.Helper()
	e, err := events.NewFeeding(start, start.Add(time.Duration(minutes)*time.Minute), src, oz, "")
	require.NoError(t, err)
	return e
}

func potty(t *testing.T, kind events.Kind, at time.Time) events.Event {
	t.Helper()
	e, err := events.NewPotty(kind, at, "", "")
	require.NoError(t, err)
	return e
}

func sleep(t *testing.T, start time.Time, minutes int) events.Event {
	t.Helper()
	e, err := events.NewSleep(start, start.Add(time.Duration(minutes)*time.Minute), "", "")
	require.NoError(t, err)
	return e
}

func schema(t *testing.T) events.Schema {
	t.Helper()
	s, err := events.SchemaByName(events.SchemaClassic)
	require.NoError(t, err)
	return s.WithLocation(time.UTC)
}

func TestBuildSameDay(t *testing.T) {
	b := NewBuilder(time.UTC)

	got := b.Build([]events.Event{feed(t, clock(0, 8, 0), 20, details.FeedSourceLeft, 0)}, 7)
	require.Len(t, got, 1)

	iv := got[0]
	assert.Equal(t, events.KindFood, iv.Kind)
	assert.Equal(t, CategoryFeeding, iv.Category)
	assert.Equal(t, day1, iv.Day)
	assert.Equal(t, clock(0, 8, 0), iv.Start)
	assert.Equal(t, clock(0, 8, 20), iv.End)
	assert.Equal(t, ref(8, 0), iv.RefStart)
	assert.Equal(t, ref(8, 20), iv.RefEnd)
	assert.Equal(t, "blue", iv.Color)
	assert.Equal(t, "Left: 0h 20m", iv.Tooltip)
}

func TestBuildSplitsAtMidnight(t *testing.T) {
	b := NewBuilder(time.UTC)

	got := b.Build([]events.Event{sleep(t, clock(0, 23, 50), 20)}, 7)
	require.Len(t, got, 2)

	assert.Equal(t, day1, got[0].Day)
	assert.Equal(t, ref(23, 50), got[0].RefStart)
	assert.Equal(t, ref(23, 59), got[0].RefEnd)

	assert.Equal(t, day1.AddDate(0, 0, 1), got[1].Day)
	assert.Equal(t, ref(0, 0), got[1].RefStart)
	assert.Equal(t, ref(0, 11), got[1].RefEnd)

	// ambas mitades suman la duración
	total := got[0].End.Sub(got[0].Start) + got[1].End.Sub(got[1].Start)
	assert.Equal(t, 20*time.Minute, total)

	for _, iv := range got {
		assert.Equal(t, "Sleep: 0h 20m", iv.Tooltip)
		assert.Equal(t, CategorySleep, iv.Category)
		assert.Equal(t, "green", iv.Color)
	}
}

func TestBuildPointEventsGetTenMinutes(t *testing.T) {
	b := NewBuilder(time.UTC)

	got := b.Build([]events.Event{
		potty(t, events.KindPoo, clock(0, 9, 0)),
		potty(t, events.KindPee, clock(0, 10, 30)),
	}, 7)
	require.Len(t, got, 2)

	assert.Equal(t, ref(9, 0), got[0].RefStart)
	assert.Equal(t, ref(9, 10), got[0].RefEnd)
	assert.Equal(t, "brown", got[0].Color)
	assert.Equal(t, "Poo", got[0].Tooltip)
	assert.Equal(t, CategoryPotty, got[0].Category)

	assert.Equal(t, "yellow", got[1].Color)
	assert.Equal(t, "Pee", got[1].Tooltip)
	assert.Equal(t, CategoryPotty, got[1].Category)
}

func TestBuildBottleTooltip(t *testing.T) {
	b := NewBuilder(time.UTC)

	got := b.Build([]events.Event{feed(t, clock(0, 7, 0), 15, details.FeedSourceBottle, 4)}, 7)
	require.Len(t, got, 1)
	assert.Equal(t, "Bottle: 4.0 oz", got[0].Tooltip)
}

func TestBuildEmptyLog(t *testing.T) {
	b := NewBuilder(time.UTC)

	assert.Empty(t, b.Build(nil, 7))

	got, err := b.BuildRecords(schema(t), nil, 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildRecordsMalformedDuration(t *testing.T) {
	b := NewBuilder(time.UTC)

	_, err := b.BuildRecords(schema(t), []events.Record{
		{"Pee", "2024-03-01 08:00 AM", "", "", "", ""},
		{"Sleep", "2024-03-01 09:00 AM", "a while", "", "", ""},
	}, 7)
	assert.ErrorIs(t, err, events.ErrMalformedDuration)
}

func TestBuildTrailingWindow(t *testing.T) {
	b := NewBuilder(time.UTC)

	var all []events.Event
	for d := 0; d < 10; d++ {
		all = append(all, potty(t, events.KindPee, clock(d, 12, 0)))
	}
	// cruza del día 6 al 7: la segunda mitad cae dentro de la ventana
	all = append(all, sleep(t, clock(6, 23, 0), 120))

	got := b.Build(all, 3)

	days := map[time.Time]bool{}
	for _, iv := range got {
		days[iv.Day] = true
	}
	assert.Len(t, days, 3)
	assert.True(t, days[day1.AddDate(0, 0, 7)])
	assert.True(t, days[day1.AddDate(0, 0, 9)])
	assert.False(t, days[day1.AddDate(0, 0, 6)])

	// ordenado por día
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Day.Before(got[i-1].Day))
	}

	var sawSleep bool
	for _, iv := range got {
		if iv.Kind == events.KindSleep {
			sawSleep = true
			assert.Equal(t, day1.AddDate(0, 0, 7), iv.Day)
			assert.Equal(t, ref(0, 0), iv.RefStart)
		}
	}
	assert.True(t, sawSleep)
}

func TestBuildTrailingWindowEndsOnLatestEventDay(t *testing.T) {
	b := NewBuilder(time.UTC)

	var all []events.Event
	for d := 0; d < 10; d++ {
		all = append(all, potty(t, events.KindPee, clock(d, 12, 0)))
	}
	// el último evento cruza del día 9 al 10
	all = append(all, sleep(t, clock(9, 23, 0), 120))

	got := b.Build(all, 3)

	days := map[time.Time]bool{}
	for _, iv := range got {
		days[iv.Day] = true
	}
	assert.True(t, days[day1.AddDate(0, 0, 7)], "el día más viejo de la ventana se mantiene")
	assert.True(t, days[day1.AddDate(0, 0, 8)])
	assert.True(t, days[day1.AddDate(0, 0, 9)])
	assert.False(t, days[day1.AddDate(0, 0, 6)])

	// solo la segunda mitad de la siesta cae en el día 10
	var spill []Interval
	for _, iv := range got {
		if iv.Day.Equal(day1.AddDate(0, 0, 10)) {
			spill = append(spill, iv)
		}
	}
	require.Len(t, spill, 1)
	assert.Equal(t, events.KindSleep, spill[0].Kind)
	assert.Equal(t, ref(0, 0), spill[0].RefStart)
	assert.Equal(t, ref(1, 1), spill[0].RefEnd)
}

func TestBuildInsertionOrderDoesNotMatter(t *testing.T) {
	b := NewBuilder(time.UTC)

	got := b.Build([]events.Event{
		potty(t, events.KindPee, clock(2, 8, 0)),
		potty(t, events.KindPoo, clock(0, 8, 0)),
	}, 7)
	require.Len(t, got, 2)
	assert.Equal(t, day1, got[0].Day)
	assert.Equal(t, day1.AddDate(0, 0, 2), got[1].Day)
}

func TestBuildUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	b := NewBuilder(loc)

	// 01:00 UTC es 22:00 del día anterior en UTC-3
	got := b.Build([]events.Event{potty(t, events.KindPee, clock(1, 1, 0))}, 7)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, loc), got[0].Day)
	assert.Equal(t, ref(22, 0), got[0].RefStart)
}

func TestGroupByDay(t *testing.T) {
	b := NewBuilder(time.UTC)

	got := GroupByDay(b.Build([]events.Event{
		potty(t, events.KindPee, clock(0, 8, 0)),
		potty(t, events.KindPoo, clock(0, 9, 0)),
		sleep(t, clock(0, 23, 30), 60),
	}, 7))

	require.Len(t, got, 2)
	assert.Len(t, got[0].Intervals, 3)
	assert.Len(t, got[1].Intervals, 1)
}

func TestColorFallback(t *testing.T) {
	assert.Equal(t, "gray", ColorOf("Bath"))
}
