// Package presentation dibuja la tabla, el timeline y el resumen en la terminal.
package presentation

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const fallbackWidth = 80

// displayWidth mide el ancho en celdas (emojis y acentos incluidos).
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// pad completa s hasta width celdas.
func pad(s string, width int, leftAlign bool) string {
	w := displayWidth(s)
	if w >= width {
		return s
	}
	padding := strings.Repeat(" ", width-w)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// fit recorta s a width celdas con "…".
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// TerminalWidth es el ancho de la terminal de f, u 80 si no es una terminal.
func TerminalWidth(f *os.File) int {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return fallbackWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w < 40 {
		return fallbackWidth
	}
	return w
}

// IsTerminal indica si vale la pena emitir colores.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
