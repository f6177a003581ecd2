package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"baby-tracker/internal/adapters/storage/storetest"
	"baby-tracker/internal/domain/events"
	"baby-tracker/internal/domain/events/details"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Event Type,Start,Duration,Source,Ounces,Comment\n"

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "baby_log.csv")
	s := New(path, storetest.Schema(t), nil)
	return s, path
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, schema events.Schema) events.Store {
		return New(filepath.Join(t.TempDir(), "log", "baby_log.csv"), schema, nil)
	})
}

func TestInitializeWritesHeaderOnly(t *testing.T) {
	s, path := newStore(t)
	require.NoError(t, s.Initialize(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header, string(raw))
}

func TestInitializeKeepsExistingFile(t *testing.T) {
	s, path := newStore(t)
	content := header + "Pee,2024-03-01 08:00 AM,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, s.Initialize(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))
}

func TestAppendWritesCSVRow(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Initialize(ctx))

	at := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	e, err := events.NewFeeding(at, at.Add(20*time.Minute), details.FeedSourceLeft, 0, "fussy, then fine")
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, e))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header+"Food,2024-03-01 08:00 AM,0h 20m,Left,,\"fussy, then fine\"\n", string(raw))
}

func TestReconcileWithoutChangesIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Initialize(ctx))

	at := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		require.NoError(t, s.Append(ctx, storetest.Feed(t, at.Add(time.Duration(i)*3*time.Hour), 15+i, details.FeedSourceBottle, 2.5)))
	}
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	view, err := s.ReadRecent(ctx, 4)
	require.NoError(t, err)
	_, err = events.Reconciler{}.Reconcile(ctx, view, view, s)
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestReadsOutOfBandEdits(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Initialize(ctx))

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// alguien edita el CSV a mano; la última línea queda sin salto
	require.NoError(t, os.WriteFile(path, []byte(header+"Poo,2024-03-01 09:15 AM,,,,diaper"), 0o644))
	s.Invalidate()

	all, err = s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, events.Record{"Poo", "2024-03-01 09:15 AM", "", "", "", "diaper"}, all[0])

	// el append no pega la fila nueva a la anterior
	require.NoError(t, s.Append(ctx, storetest.Pee(t, time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), "")))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header+"Poo,2024-03-01 09:15 AM,,,,diaper\nPee,2024-03-01 10:00 AM,,,,\n", string(raw))
}

func TestDetectsReplacedFileWithSameSizeAndMtime(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)

	require.NoError(t, os.WriteFile(path, []byte(header+"Poo,2024-03-01 09:15 AM,,,,\n"), 0o644))
	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)

	// guardado estilo editor: archivo nuevo del mismo tamaño, mismo mtime, rename encima
	tmp := path + ".swp"
	require.NoError(t, os.WriteFile(tmp, []byte(header+"Pee,2024-03-01 09:15 AM,,,,\n"), 0o644))
	require.NoError(t, os.Chtimes(tmp, info.ModTime(), info.ModTime()))
	require.NoError(t, os.Rename(tmp, path))

	all, err = s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Pee", all[0][0])
}

func TestHeaderMismatch(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("Type,When\nPee,yesterday\n"), 0o644))

	_, err := s.ReadAll(ctx)
	assert.ErrorIs(t, err, events.ErrSchemaMismatch)

	err = s.Append(ctx, storetest.Pee(t, time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), ""))
	assert.ErrorIs(t, err, events.ErrSchemaMismatch)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Type,When\nPee,yesterday\n", string(raw))
}

func TestRowWidthMismatch(t *testing.T) {
	s, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte(header+"Pee,2024-03-01 08:00 AM\n"), 0o644))

	_, err := s.ReadAll(context.Background())
	assert.ErrorIs(t, err, events.ErrSchemaMismatch)
}

func TestMissingFileIsUnavailable(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.ReadRecent(context.Background(), 5)
	assert.ErrorIs(t, err, events.ErrStoreUnavailable)
}

func TestRewriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Append(ctx, storetest.Pee(t, time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), "")))

	require.NoError(t, s.ReplaceTail(ctx, nil, 1))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "baby_log.csv", entries[0].Name())
}
