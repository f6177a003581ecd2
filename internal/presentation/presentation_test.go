package presentation

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/timeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTable(&buf, []string{"Event Type", "Start", "Comment"}, []events.Record{
		{"Pee", "2024-03-01 09:00 AM", ""},
		{"Food", "2024-03-01 08:00 AM", "niño contento"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#  Event Type  Start                Comment", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "-  ----------"))
	assert.Equal(t, "0  Pee         2024-03-01 09:00 AM", lines[2])
	assert.Equal(t, "1  Food        2024-03-01 08:00 AM  niño contento", lines[3])
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, []string{"Event Type", "Start"}, nil))
	assert.Contains(t, buf.String(), "(no events)")
}

func TestRenderTableTruncatesLongCells(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("x", 100)
	require.NoError(t, RenderTable(&buf, []string{"Comment"}, []events.Record{{long}}))
	assert.NotContains(t, buf.String(), long)
	assert.Contains(t, buf.String(), "…")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, []events.DaySummary{{
		Day:            time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Feeds:          3,
		BottleOunces:   6.5,
		NursingMinutes: 20,
		SleepMinutes:   90,
		Pees:           2,
	}}))
	out := buf.String()
	assert.Contains(t, out, "Fri 2024-03-01")
	assert.Contains(t, out, "6.5")
	assert.Contains(t, out, "1h 30m")
}

func TestRenderTimelinePlain(t *testing.T) {
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	ref := func(h, m int) time.Time { return time.Date(2000, time.January, 1, h, m, 0, 0, time.UTC) }

	days := []timeline.Day{{
		Day: day,
		Intervals: []timeline.Interval{
			{Kind: events.KindFood, Category: timeline.CategoryFeeding, Day: day, RefStart: ref(0, 0), RefEnd: ref(6, 0), Color: timeline.ColorFood},
			{Kind: events.KindPoo, Category: timeline.CategoryPotty, Day: day, RefStart: ref(12, 0), RefEnd: ref(12, 10), Color: timeline.ColorPoo},
			{Kind: events.KindSleep, Category: timeline.CategorySleep, Day: day, RefStart: ref(18, 0), RefEnd: ref(23, 59), Color: timeline.ColorSleep},
		},
	}}

	var buf bytes.Buffer
	// 24 columnas de eje: una por hora
	require.NoError(t, RenderTimeline(&buf, days, TimelineOptions{Width: dayLabelWidth + catLabelWidth + 2 + 24}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)

	bar := func(line string) string {
		i := strings.Index(line, "|")
		return line[i+1 : len(line)-1]
	}
	assert.Equal(t, "FFFFFF"+strings.Repeat(" ", 18), bar(lines[1]))
	assert.Equal(t, strings.Repeat(" ", 12)+"O"+strings.Repeat(" ", 11), bar(lines[2]))
	assert.Equal(t, strings.Repeat(" ", 18)+"zzzzzz", bar(lines[3]))

	assert.True(t, strings.HasPrefix(lines[1], "Fri 2024-03-01 Feeding"))
	assert.Contains(t, lines[4], "F Food")
	assert.Contains(t, lines[4], "o Pee")
}

func TestRenderTimelineEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTimeline(&buf, nil, TimelineOptions{Width: 80}))
	assert.Equal(t, "(no events)\n", buf.String())
}

func TestPadAndFitUseDisplayWidth(t *testing.T) {
	assert.Equal(t, "日本  ", pad("日本", 6, true))
	assert.Equal(t, "  ab", pad("ab", 4, false))
	short := fit("日本語テキスト", 5)
	assert.LessOrEqual(t, displayWidth(short), 5)
	assert.True(t, strings.HasSuffix(short, "…"))
	assert.Equal(t, fallbackWidth, TerminalWidth(nil))
}
