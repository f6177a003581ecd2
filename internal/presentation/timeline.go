package presentation

import (
	"fmt"
	"io"
	"strings"

	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/timeline"

	"github.com/charmbracelet/lipgloss"
)

const minutesPerDay = 24 * 60

// paleta de la terminal para los colores del timeline
var palette = map[string]lipgloss.Color{
	timeline.ColorPoo:   lipgloss.Color("#8B4513"),
	timeline.ColorPee:   lipgloss.Color("#FFD700"),
	timeline.ColorFood:  lipgloss.Color("#1E90FF"),
	timeline.ColorSleep: lipgloss.Color("#2E8B57"),
	"gray":              lipgloss.Color("#808080"),
}

// glyphs sin color: cada tipo se distingue igual
var glyphs = map[events.Kind]rune{
	events.KindFood:  'F',
	events.KindPoo:   'O',
	events.KindPee:   'o',
	events.KindSleep: 'z',
}

var (
	dayStyle    = lipgloss.NewStyle().Bold(true)
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

var rowOrder = []timeline.Category{timeline.CategoryFeeding, timeline.CategoryPotty, timeline.CategorySleep}

type TimelineOptions struct {
	// Width es el ancho total de la línea; el eje horario usa lo que sobra de las etiquetas.
	Width int
	Color bool
}

const (
	dayLabelWidth = 15
	catLabelWidth = 8
)

// RenderTimeline dibuja un día por bloque, una fila por categoría, con el eje de 24 h.
func RenderTimeline(w io.Writer, days []timeline.Day, opts TimelineOptions) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "(no events)")
		return err
	}

	slots := opts.Width - dayLabelWidth - catLabelWidth - 2
	if slots < 24 {
		slots = 24
	}

	if _, err := fmt.Fprintln(w, strings.Repeat(" ", dayLabelWidth+catLabelWidth+1)+axis(slots)); err != nil {
		return err
	}

	for _, d := range days {
		for i, cat := range rowOrder {
			label := ""
			if i == 0 {
				label = d.Day.Format("Mon 2006-01-02")
			}
			label = pad(label, dayLabelWidth, true)
			if opts.Color {
				label = dayStyle.Render(label)
			}
			line := label + pad(string(cat), catLabelWidth, true) + "|" +
				renderRow(d.Intervals, cat, slots, opts.Color) + "|"
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	legend := legendLine(opts.Color)
	_, err := fmt.Fprintln(w, legend)
	return err
}

// axis marca 0, 6, 12 y 18 h sobre slots columnas.
func axis(slots int) string {
	buf := []rune(strings.Repeat(" ", slots+1))
	for _, h := range []int{0, 6, 12, 18} {
		label := fmt.Sprintf("%d", h)
		pos := h*60*slots/minutesPerDay + 1
		for i, r := range label {
			if pos+i < len(buf) {
				buf[pos+i] = r
			}
		}
	}
	return strings.TrimRight(string(buf), " ")
}

type cell struct {
	kind  events.Kind
	color string
}

func renderRow(intervals []timeline.Interval, cat timeline.Category, slots int, color bool) string {
	row := make([]*cell, slots)
	for _, iv := range intervals {
		if iv.Category != cat {
			continue
		}
		from := minuteOfDay(iv.RefStart.Hour(), iv.RefStart.Minute())
		to := minuteOfDay(iv.RefEnd.Hour(), iv.RefEnd.Minute())
		first := from * slots / minutesPerDay
		last := (to*slots + minutesPerDay - 1) / minutesPerDay
		if last <= first {
			last = first + 1
		}
		if last > slots {
			last = slots
		}
		c := &cell{kind: iv.Kind, color: iv.Color}
		for i := first; i < last; i++ {
			row[i] = c
		}
	}

	var sb strings.Builder
	for _, c := range row {
		switch {
		case c == nil:
			sb.WriteRune(' ')
		case color:
			sb.WriteString(lipgloss.NewStyle().Foreground(colorOf(c.color)).Render("█"))
		default:
			sb.WriteRune(glyphOf(c.kind))
		}
	}
	return sb.String()
}

func legendLine(color bool) string {
	parts := make([]string, 0, len(events.AllKinds))
	for _, k := range events.AllKinds {
		if color {
			swatch := lipgloss.NewStyle().Foreground(colorOf(timeline.ColorOf(k))).Render("█")
			parts = append(parts, swatch+" "+string(k))
			continue
		}
		parts = append(parts, string(glyphOf(k))+" "+string(k))
	}
	line := strings.Join(parts, "   ")
	if color {
		return legendStyle.Render("legend: ") + line
	}
	return "legend: " + line
}

func minuteOfDay(h, m int) int { return h*60 + m }

func colorOf(name string) lipgloss.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return palette["gray"]
}

func glyphOf(k events.Kind) rune {
	if g, ok := glyphs[k]; ok {
		return g
	}
	return '?'
}
