package events

import (
	"context"
	"testing"

	"baby-tracker/internal/domain/events/details"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *testStore {
	t.Helper()
	s := newTestStore(t)
	s.seed(t,
		mustFeed(t, at(1, 0), 20, details.FeedSourceLeft, 0, ""),
		mustPotty(t, KindPee, at(2, 0), ""),
		mustSleep(t, at(3, 0), 90),
		mustFeed(t, at(5, 0), 10, details.FeedSourceBottle, 4, ""),
		mustPotty(t, KindPoo, at(6, 0), "big one"),
	)
	return s
}

func TestReconcileUnchangedIsNoop(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	before, _ := s.ReadAll(ctx)

	view, err := s.ReadRecent(ctx, 3)
	require.NoError(t, err)

	out, err := Reconciler{}.Reconcile(ctx, view, view, s)
	require.NoError(t, err)
	assert.Equal(t, ActionEdited, out.Action)

	after, _ := s.ReadAll(ctx)
	assert.Equal(t, before, after)

	// idempotente
	_, err = Reconciler{}.Reconcile(ctx, view, view, s)
	require.NoError(t, err)
	after, _ = s.ReadAll(ctx)
	assert.Equal(t, before, after)
}

func TestReconcileEditReplacesTail(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	before, _ := s.ReadAll(ctx)

	view, _ := s.ReadRecent(ctx, 2)
	edited := []Record{view[0].Clone(), view[1].Clone()}
	edited[1][2] = "0h 15m" // el bottle (más viejo de la vista)

	out, err := Reconciler{}.Reconcile(ctx, edited, view, s)
	require.NoError(t, err)
	assert.Equal(t, ActionEdited, out.Action)
	assert.Equal(t, 1, s.replaced)

	after, _ := s.ReadAll(ctx)
	require.Len(t, after, 5)
	assert.Equal(t, before[:3], after[:3])
	assert.Equal(t, "0h 15m", after[3][2])
	assert.Equal(t, before[4], after[4])
}

func TestReconcileSingleDeletion(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	before, _ := s.ReadAll(ctx)

	view, _ := s.ReadRecent(ctx, 5)
	edited := []Record{view[0], view[1], view[3], view[4]} // sin el Sleep

	out, err := Reconciler{}.Reconcile(ctx, edited, view, s)
	require.NoError(t, err)
	assert.Equal(t, ActionDeleted, out.Action)
	assert.Equal(t, before[2], out.Deleted)

	after, _ := s.ReadAll(ctx)
	assert.Equal(t, []Record{before[0], before[1], before[3], before[4]}, after)
}

func TestReconcileDeletingLastRowEmptiesView(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.seed(t, mustFeed(t, at(8, 0), 20, details.FeedSourceLeft, 0, ""))

	view, _ := s.ReadRecent(ctx, 1)
	out, err := Reconciler{}.Reconcile(ctx, []Record{}, view, s)
	require.NoError(t, err)
	assert.Equal(t, ActionDeleted, out.Action)

	after, _ := s.ReadAll(ctx)
	assert.Empty(t, after)
}

func TestReconcileAmbiguousDeletion(t *testing.T) {
	ctx := context.Background()

	t.Run("two rows removed", func(t *testing.T) {
		s := seededStore(t)
		before, _ := s.ReadAll(ctx)
		view, _ := s.ReadRecent(ctx, 5)

		_, err := Reconciler{}.Reconcile(ctx, view[:3], view, s)
		assert.ErrorIs(t, err, ErrAmbiguousDeletion)

		after, _ := s.ReadAll(ctx)
		assert.Equal(t, before, after)
		assert.Zero(t, s.deleted)
		assert.Zero(t, s.replaced)
	})

	t.Run("deleted and edited at once", func(t *testing.T) {
		s := seededStore(t)
		view, _ := s.ReadRecent(ctx, 3)

		changed := view[0].Clone()
		changed[5] = "edited"
		_, err := Reconciler{}.Reconcile(ctx, []Record{changed, view[2]}, view, s)
		assert.ErrorIs(t, err, ErrAmbiguousDeletion)
		assert.Zero(t, s.deleted)
	})

	t.Run("duplicated rows", func(t *testing.T) {
		s := newTestStore(t)
		dup := mustPotty(t, KindPee, at(8, 0), "")
		s.seed(t, dup, dup, mustPotty(t, KindPoo, at(9, 0), ""))
		view, _ := s.ReadRecent(ctx, 3)

		_, err := Reconciler{}.Reconcile(ctx, []Record{view[0], view[1]}, view, s)
		assert.ErrorIs(t, err, ErrAmbiguousDeletion)
		assert.Len(t, s.records, 3)
	})
}

func TestReconcileRejectsLongerView(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	view, _ := s.ReadRecent(ctx, 2)

	_, err := Reconciler{}.Reconcile(ctx, append(view, view[0]), view, s)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReconcileRejectsWrongWidth(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	view, _ := s.ReadRecent(ctx, 1)

	_, err := Reconciler{}.Reconcile(ctx, []Record{{"Pee", "2024-03-01 02:00 AM"}}, view, s)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Zero(t, s.replaced)
}

func TestReconcileEmptyViews(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	out, err := Reconciler{}.Reconcile(ctx, nil, nil, s)
	require.NoError(t, err)
	assert.Equal(t, ActionEdited, out.Action)
	assert.Empty(t, s.records)
}
