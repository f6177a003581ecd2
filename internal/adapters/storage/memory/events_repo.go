package memory

import (
	"context"
	"sync"

	"baby-tracker/internal/domain/events"
)

type eventRepo struct {
	mu      sync.RWMutex
	schema  events.Schema
	records []events.Record
}

// NewEventRepo es un store en memoria con el mismo contrato que el CSV.
// Nace inicializado (no hay recurso externo que crear).
func NewEventRepo(schema events.Schema) events.Store {
	return &eventRepo{schema: schema}
}

func (r *eventRepo) Initialize(ctx context.Context) error { return nil }

func (r *eventRepo) Columns() []string { return r.schema.Columns() }

func (r *eventRepo) ReadAll(ctx context.Context) ([]events.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (r *eventRepo) ReadRecent(ctx context.Context, n int) ([]events.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return events.Newest(r.records, n), nil
}

func (r *eventRepo) Append(ctx context.Context, e events.Event) error {
	rec, err := r.schema.Encode(e)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec)
	return nil
}

func (r *eventRepo) ReplaceTail(ctx context.Context, newTail []events.Record, originalTailLength int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := events.WithTail(r.records, newTail, originalTailLength, r.schema.Width())
	if err != nil {
		return err
	}
	r.records = next
	return nil
}

func (r *eventRepo) DeleteSpecific(ctx context.Context, rec events.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := events.WithoutNewest(r.records, rec)
	if err != nil {
		return err
	}
	r.records = next
	return nil
}
