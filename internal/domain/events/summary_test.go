package events

import (
	"testing"
	"time"

	"baby-tracker/internal/domain/events/details"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	next := func(e Event) Event { e.Start = e.Start.AddDate(0, 0, 1); return e }

	all := []Event{
		mustFeed(t, at(8, 0), 20, details.FeedSourceLeft, 0, ""),
		mustFeed(t, at(11, 0), 10, details.FeedSourceBottle, 4, ""),
		mustFeed(t, at(14, 0), 5, details.FeedSourceBottle, 2.5, ""),
		mustSleep(t, at(12, 0), 90),
		mustPotty(t, KindPoo, at(9, 0), ""),
		mustPotty(t, KindPee, at(9, 30), ""),
		mustPotty(t, KindPee, at(10, 0), ""),
		next(mustSleep(t, at(1, 0), 45)),
	}

	got := Summarize(all, 7, time.UTC)
	require.Len(t, got, 2)

	d1 := got[0]
	assert.Equal(t, day1, d1.Day)
	assert.Equal(t, 3, d1.Feeds)
	assert.InDelta(t, 6.5, d1.BottleOunces, 0.001)
	assert.Equal(t, 20, d1.NursingMinutes)
	assert.Equal(t, 90, d1.SleepMinutes)
	assert.Equal(t, 1, d1.Poos)
	assert.Equal(t, 2, d1.Pees)

	assert.Equal(t, day1.AddDate(0, 0, 1), got[1].Day)
	assert.Equal(t, 45, got[1].SleepMinutes)
}

func TestSummarizeWindow(t *testing.T) {
	var all []Event
	for i := 0; i < 10; i++ {
		all = append(all, mustPotty(t, KindPee, at(8, 0).AddDate(0, 0, i), ""))
	}

	got := Summarize(all, 3, time.UTC)
	require.Len(t, got, 3)
	assert.Equal(t, day1.AddDate(0, 0, 7), got[0].Day)
	assert.Equal(t, day1.AddDate(0, 0, 9), got[2].Day)

	assert.Empty(t, Summarize(nil, 3, time.UTC))
}
