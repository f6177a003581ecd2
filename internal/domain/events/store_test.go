package events

import (
	"context"
	"testing"
	"time"

	"baby-tracker/internal/domain/events/details"

	"github.com/stretchr/testify/require"
)

// -------------------------
// Test store (in-memory)
// -------------------------

type testStore struct {
	schema  Schema
	records []Record

	replaced int // llamadas a ReplaceTail
	deleted  int // llamadas a DeleteSpecific
	failWith error
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	return &testStore{schema: testSchema(t)}
}

func testSchema(t *testing.T) Schema {
	t.Helper()
	s, err := SchemaByName(SchemaClassic)
	require.NoError(t, err)
	return s.WithLocation(time.UTC)
}

func (s *testStore) Initialize(ctx context.Context) error { return s.failWith }
func (s *testStore) Columns() []string                    { return s.schema.Columns() }

func (s *testStore) ReadAll(ctx context.Context) ([]Record, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *testStore) ReadRecent(ctx context.Context, n int) ([]Record, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return Newest(s.records, n), nil
}

func (s *testStore) Append(ctx context.Context, e Event) error {
	if s.failWith != nil {
		return s.failWith
	}
	r, err := s.schema.Encode(e)
	if err != nil {
		return err
	}
	s.records = append(s.records, r)
	return nil
}

func (s *testStore) ReplaceTail(ctx context.Context, newTail []Record, k int) error {
	s.replaced++
	next, err := WithTail(s.records, newTail, k, s.schema.Width())
	if err != nil {
		return err
	}
	s.records = next
	return nil
}

func (s *testStore) DeleteSpecific(ctx context.Context, r Record) error {
	s.deleted++
	next, err := WithoutNewest(s.records, r)
	if err != nil {
		return err
	}
	s.records = next
	return nil
}

var day1 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day1.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func mustFeed(t *testing.T, start time.Time, minutes int, src details.FeedSource, oz float64, comment string) Event {
	t.Helper()
	e, err := NewFeeding(start, start.Add(time.Duration(minutes)*time.Minute), src, oz, comment)
	require.NoError(t, err)
	return e
}

func mustPotty(t *testing.T, kind Kind, when time.Time, comment string) Event {
	t.Helper()
	e, err := NewPotty(kind, when, "", comment)
	require.NoError(t, err)
	return e
}

func mustSleep(t *testing.T, start time.Time, minutes int) Event {
	t.Helper()
	e, err := NewSleep(start, start.Add(time.Duration(minutes)*time.Minute), "", "")
	require.NoError(t, err)
	return e
}

func (s *testStore) seed(t *testing.T, evs ...Event) {
	t.Helper()
	for _, e := range evs {
		require.NoError(t, s.Append(context.Background(), e))
	}
}
