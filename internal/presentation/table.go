package presentation

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"baby-tracker/internal/domain/events"
)

// maxCell evita que un comentario largo se coma toda la tabla.
const maxCell = 40

// RenderTable escribe filas (más reciente primero) con un índice, igual que la tabla editable.
func RenderTable(w io.Writer, columns []string, rows []events.Record) error {
	header := append([]string{"#"}, columns...)
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = displayWidth(h)
	}

	cells := make([][]string, 0, len(rows))
	for i, r := range rows {
		line := make([]string, len(header))
		line[0] = strconv.Itoa(i)
		for j := range columns {
			if j < len(r) {
				line[j+1] = fit(r[j], maxCell)
			}
		}
		for j, c := range line {
			if cw := displayWidth(c); cw > widths[j] {
				widths[j] = cw
			}
		}
		cells = append(cells, line)
	}

	if err := writeRow(w, header, widths); err != nil {
		return err
	}
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	if err := writeRow(w, sep, widths); err != nil {
		return err
	}
	for _, line := range cells {
		if err := writeRow(w, line, widths); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no events)")
		return err
	}
	return nil
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = pad(c, widths[i], i != 0)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

// RenderSummary escribe los totales diarios, un día por línea.
func RenderSummary(w io.Writer, sums []events.DaySummary) error {
	columns := []string{"Day", "Feeds", "Bottle oz", "Nursing", "Sleep", "Poo", "Pee"}
	rows := make([]events.Record, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, events.Record{
			s.Day.Format("Mon 2006-01-02"),
			strconv.Itoa(s.Feeds),
			strconv.FormatFloat(s.BottleOunces, 'f', 1, 64),
			events.FormatDuration(time.Duration(s.NursingMinutes) * time.Minute),
			events.FormatDuration(time.Duration(s.SleepMinutes) * time.Minute),
			strconv.Itoa(s.Poos),
			strconv.Itoa(s.Pees),
		})
	}
	return RenderTable(w, columns, rows)
}
