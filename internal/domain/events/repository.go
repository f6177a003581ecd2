package events

import (
	"context"
	"fmt"
	"time"
)

// Store es la autoridad sobre la secuencia ordenada de eventos.
//
// Convenciones de orden:
//   - ReadAll devuelve más antiguo primero (orden de inserción).
//   - ReadRecent devuelve más reciente primero (orden de la tabla).
//   - ReplaceTail recibe la cola nueva más antigua primero.
type Store interface {
	// Initialize crea el store vacío con el header si no existe. Nunca sobreescribe.
	Initialize(ctx context.Context) error
	Columns() []string

	ReadAll(ctx context.Context) ([]Record, error)
	ReadRecent(ctx context.Context, n int) ([]Record, error)

	Append(ctx context.Context, e Event) error
	ReplaceTail(ctx context.Context, newTail []Record, originalTailLength int) error
	DeleteSpecific(ctx context.Context, r Record) error
}

// ListFilter filtra eventos decodificados (búsqueda del historial).
type ListFilter struct {
	Kinds []Kind
	From  *time.Time
	To    *time.Time
	Query string
	Limit int
}

// Los helpers de abajo implementan el contrato sobre un slice en memoria; los usan los
// adapters que reescriben todo el contenido (memoria, CSV).

// Newest devuelve los últimos n registros, más reciente primero.
func Newest(all []Record, n int) []Record {
	if n <= 0 {
		return []Record{}
	}
	if n > len(all) {
		n = len(all)
	}
	out := make([]Record, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		out = append(out, all[i].Clone())
	}
	return out
}

// WithTail reemplaza los últimos k registros por newTail, sin tocar el prefijo.
func WithTail(all []Record, newTail []Record, k int, width int) ([]Record, error) {
	if k < 0 || k > len(all) {
		return nil, fmt.Errorf("%w: tail length %d out of range (store has %d records)", ErrInvalidInput, k, len(all))
	}
	for _, r := range newTail {
		if len(r) != width {
			return nil, fmt.Errorf("%w: record has %d fields, header has %d", ErrSchemaMismatch, len(r), width)
		}
	}
	prefix := len(all) - k
	out := make([]Record, 0, prefix+len(newTail))
	out = append(out, all[:prefix]...)
	for _, r := range newTail {
		out = append(out, r.Clone())
	}
	return out, nil
}

// WithoutNewest quita la primera fila igual a r buscando desde el final.
func WithoutNewest(all []Record, r Record) ([]Record, error) {
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Equal(r) {
			out := make([]Record, 0, len(all)-1)
			out = append(out, all[:i]...)
			out = append(out, all[i+1:]...)
			return out, nil
		}
	}
	return nil, ErrRecordNotFound
}
