package events

import (
	"context"
	"fmt"
)

// DefaultWindow es la cantidad de filas que muestra (y puede editar) la tabla.
const DefaultWindow = 200

type Action string

const (
	ActionEdited  Action = "edited"
	ActionDeleted Action = "deleted"
)

// Outcome describe qué mutación se aplicó al store.
type Outcome struct {
	Action  Action
	Deleted Record
}

// Reconciler traduce la vista editada de la tabla a una mutación mínima del store.
type Reconciler struct{}

// Reconcile compara editedView contra lastKnownView (ambas más reciente primero).
//
//   - Menos filas: se borró una. Se calcula la diferencia como multiset de tuplas; si no hay
//     exactamente una fila candidata (o está duplicada) devuelve ErrAmbiguousDeletion sin mutar.
//   - Mismas filas: edición (o nada). Reemplaza la cola completa; es idempotente.
//   - Más filas: ErrInvalidInput, las altas van por Append.
func (Reconciler) Reconcile(ctx context.Context, editedView, lastKnownView []Record, store Store) (Outcome, error) {
	width := len(store.Columns())
	for _, r := range editedView {
		if len(r) != width {
			return Outcome{}, fmt.Errorf("%w: record has %d fields, header has %d", ErrSchemaMismatch, len(r), width)
		}
	}

	switch {
	case len(editedView) < len(lastKnownView):
		deleted, err := deletedRow(editedView, lastKnownView)
		if err != nil {
			return Outcome{}, err
		}
		if err := store.DeleteSpecific(ctx, deleted); err != nil {
			return Outcome{}, err
		}
		return Outcome{Action: ActionDeleted, Deleted: deleted}, nil

	case len(editedView) == len(lastKnownView):
		if err := store.ReplaceTail(ctx, oldestFirst(editedView), len(editedView)); err != nil {
			return Outcome{}, err
		}
		return Outcome{Action: ActionEdited}, nil

	default:
		return Outcome{}, fmt.Errorf("%w: edited view has %d rows, last known view has %d", ErrInvalidInput, len(editedView), len(lastKnownView))
	}
}

// deletedRow devuelve la única fila de lastKnown que falta en edited.
func deletedRow(edited, lastKnown []Record) (Record, error) {
	counts := make(map[string]int, len(lastKnown))
	rows := make(map[string]Record, len(lastKnown))
	for _, r := range lastKnown {
		k := r.key()
		counts[k]++
		rows[k] = r
	}

	added := 0
	for _, r := range edited {
		k := r.key()
		if counts[k] == 0 {
			// fila que no estaba: borrado + edición a la vez
			added++
			continue
		}
		counts[k]--
	}

	var removed []string
	for k, n := range counts {
		for i := 0; i < n; i++ {
			removed = append(removed, k)
		}
	}

	if added > 0 || len(removed) != 1 {
		return nil, fmt.Errorf("%w: %d rows removed, %d rows changed", ErrAmbiguousDeletion, len(removed), added)
	}

	k := removed[0]
	dup := 0
	for _, r := range lastKnown {
		if r.key() == k {
			dup++
		}
	}
	if dup > 1 {
		return nil, fmt.Errorf("%w: deleted row has %d identical copies", ErrAmbiguousDeletion, dup)
	}
	return rows[k].Clone(), nil
}

func oldestFirst(view []Record) []Record {
	out := make([]Record, len(view))
	for i, r := range view {
		out[len(view)-1-i] = r.Clone()
	}
	return out
}
