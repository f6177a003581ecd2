// Package storetest tiene la suite de contrato que cumple todo events.Store.
package storetest

import (
	"context"
	"testing"
	"time"

	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/events/details"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory devuelve un store vacío, sin inicializar, que use schema.
type Factory func(t *testing.T, schema events.Schema) events.Store

// Schema es el schema con el que corre la suite (classic, en UTC).
func Schema(t *testing.T) events.Schema {
	t.Helper()
	s, err := events.SchemaByName(events.SchemaClassic)
	require.NoError(t, err)
	return s.WithLocation(time.UTC)
}

// Feed arma un Food de minutes minutos que empieza en at.
func Feed(t *testing.T, at time.Time, minutes int, source details.FeedSource, ounces float64) events.Event {
	t.Helper()
	e, err := events.NewFeeding(at, at.Add(time.Duration(minutes)*time.Minute), source, ounces, "")
	require.NoError(t, err)
	return e
}

// Pee arma un Pee puntual en at.
func Pee(t *testing.T, at time.Time, comment string) events.Event {
	t.Helper()
	e, err := events.NewPotty(events.KindPee, at, "", comment)
	require.NoError(t, err)
	return e
}

// Run corre el contrato completo contra los stores que produce newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("InitializeIsIdempotent", func(t *testing.T) { testInitialize(t, newStore) })
	t.Run("AppendKeepsOrder", func(t *testing.T) { testAppendOrder(t, newStore) })
	t.Run("ReadRecent", func(t *testing.T) { testReadRecent(t, newStore) })
	t.Run("ReplaceTailPreservesPrefix", func(t *testing.T) { testReplaceTail(t, newStore) })
	t.Run("ReplaceTailRejectsBadInput", func(t *testing.T) { testReplaceTailErrors(t, newStore) })
	t.Run("DeleteSpecificRemovesOne", func(t *testing.T) { testDeleteSpecific(t, newStore) })
	t.Run("ReconcileRoundTrip", func(t *testing.T) { testReconcileRoundTrip(t, newStore) })
	t.Run("ReconcileDeletion", func(t *testing.T) { testReconcileDeletion(t, newStore) })
}

var base = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

func open(t *testing.T, newStore Factory) (events.Store, events.Schema) {
	t.Helper()
	schema := Schema(t)
	s := newStore(t, schema)
	require.NoError(t, s.Initialize(context.Background()))
	return s, schema
}

// seed agrega n eventos Pee separados por una hora y devuelve sus filas, más antigua primero.
func seed(t *testing.T, s events.Store, schema events.Schema, n int) []events.Record {
	t.Helper()
	ctx := context.Background()
	out := make([]events.Record, 0, n)
	for i := 0; i < n; i++ {
		e := Pee(t, base.Add(time.Duration(i)*time.Hour), "")
		require.NoError(t, s.Append(ctx, e))
		rec, err := schema.Encode(e)
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func testInitialize(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, schema.Columns(), s.Columns())

	seeded := seed(t, s, schema, 2)

	// no pisa lo que ya hay
	require.NoError(t, s.Initialize(ctx))
	all, err = s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, all)
}

func testAppendOrder(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)

	// inserción fuera de orden cronológico: manda el orden de Append
	late := Feed(t, base.Add(5*time.Hour), 20, details.FeedSourceLeft, 0)
	early := Feed(t, base, 15, details.FeedSourceBottle, 4)
	require.NoError(t, s.Append(ctx, late))
	require.NoError(t, s.Append(ctx, early))

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	wantLate, _ := schema.Encode(late)
	wantEarly, _ := schema.Encode(early)
	assert.Equal(t, wantLate, all[0])
	assert.Equal(t, wantEarly, all[1])
	assert.Equal(t, events.Record{"Food", "2024-03-01 08:00 AM", "0h 15m", "Bottle", "4", ""}, all[1])
}

func testReadRecent(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)
	seeded := seed(t, s, schema, 3)

	got, err := s.ReadRecent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []events.Record{seeded[2], seeded[1]}, got)

	got, err = s.ReadRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []events.Record{seeded[2], seeded[1], seeded[0]}, got)

	got, err = s.ReadRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testReplaceTail(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)
	seeded := seed(t, s, schema, 4)

	edited := seeded[3].Clone()
	edited[5] = "woke up"
	newTail := []events.Record{seeded[2], edited}

	require.NoError(t, s.ReplaceTail(ctx, newTail, 2))

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []events.Record{seeded[0], seeded[1], seeded[2], edited}, all)

	// k = 0 solo agrega
	extra := seeded[0].Clone()
	require.NoError(t, s.ReplaceTail(ctx, []events.Record{extra}, 0))
	all, err = s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, extra, all[4])
}

func testReplaceTailErrors(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)
	seeded := seed(t, s, schema, 2)

	err := s.ReplaceTail(ctx, nil, 3)
	assert.ErrorIs(t, err, events.ErrInvalidInput)

	err = s.ReplaceTail(ctx, []events.Record{{"Pee", "x"}}, 1)
	assert.ErrorIs(t, err, events.ErrSchemaMismatch)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, all)
}

func testDeleteSpecific(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)

	a := Pee(t, base, "a")
	b := Pee(t, base.Add(time.Hour), "b")
	for _, e := range []events.Event{a, b, a} {
		require.NoError(t, s.Append(ctx, e))
	}
	recA, _ := schema.Encode(a)
	recB, _ := schema.Encode(b)

	require.NoError(t, s.DeleteSpecific(ctx, recA))

	// se va una sola copia, la más reciente
	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []events.Record{recA, recB}, all)

	err = s.DeleteSpecific(ctx, events.Record{"Poo", "2020-01-01 01:00 AM", "", "", "", ""})
	assert.ErrorIs(t, err, events.ErrRecordNotFound)
}

func testReconcileRoundTrip(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)
	seeded := seed(t, s, schema, 5)

	view, err := s.ReadRecent(ctx, 3)
	require.NoError(t, err)

	out, err := events.Reconciler{}.Reconcile(ctx, view, view, s)
	require.NoError(t, err)
	assert.Equal(t, events.ActionEdited, out.Action)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, all)
}

func testReconcileDeletion(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s, schema := open(t, newStore)
	seeded := seed(t, s, schema, 3)

	view, err := s.ReadRecent(ctx, 3)
	require.NoError(t, err)

	// la tabla sin la fila del medio
	edited := []events.Record{view[0], view[2]}
	out, err := events.Reconciler{}.Reconcile(ctx, edited, view, s)
	require.NoError(t, err)
	assert.Equal(t, events.ActionDeleted, out.Action)
	assert.Equal(t, seeded[1], out.Deleted)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []events.Record{seeded[0], seeded[2]}, all)
}
