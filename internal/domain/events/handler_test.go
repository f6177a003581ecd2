package events

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, s *testStore) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, newTestService(t, s, Options{}))
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestHTTP_CreateRecentDelete(t *testing.T) {
	s := newTestStore(t)
	ts := newTestServer(t, s)

	st, body := doJSON(t, http.MethodPost, ts.URL+"/api/events", map[string]any{
		"kind":   "Food",
		"start":  "2024-03-01 08:00 AM",
		"end":    "2024-03-01 08:20 AM",
		"source": "Left",
	})
	require.Equal(t, http.StatusCreated, st, string(body))

	var created EventResponse
	require.NoError(t, sonic.Unmarshal(body, &created))
	assert.Equal(t, "0h 20m", created.Duration)
	assert.Equal(t, "Left", created.Source)

	st, body = doJSON(t, http.MethodGet, ts.URL+"/api/events/recent?n=1", nil)
	require.Equal(t, http.StatusOK, st, string(body))

	var view ViewResponse
	require.NoError(t, sonic.Unmarshal(body, &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "0h 20m", view.Rows[0]["Duration"])
	assert.Equal(t, "2024-03-01 08:00 AM", view.Rows[0]["Start"])

	st, body = doJSON(t, http.MethodPut, ts.URL+"/api/events/recent?n=1", map[string]any{"rows": []any{}})
	require.Equal(t, http.StatusOK, st, string(body))

	var out ReconcileResponse
	require.NoError(t, sonic.Unmarshal(body, &out))
	assert.Equal(t, ActionDeleted, out.Action)
	assert.Equal(t, "Food", out.Deleted["Event Type"])

	st, body = doJSON(t, http.MethodGet, ts.URL+"/api/events/recent?n=1", nil)
	require.Equal(t, http.StatusOK, st)
	require.NoError(t, sonic.Unmarshal(body, &view))
	assert.Empty(t, view.Rows)
}

func TestHTTP_ReconcileEditsCell(t *testing.T) {
	s := seededStore(t)
	ts := newTestServer(t, s)

	_, body := doJSON(t, http.MethodGet, ts.URL+"/api/events/recent?n=2", nil)
	var view ViewResponse
	require.NoError(t, sonic.Unmarshal(body, &view))

	view.Rows[0]["Comment"] = "huge"
	st, body := doJSON(t, http.MethodPut, ts.URL+"/api/events/recent?n=2", ReconcileRequest{Rows: view.Rows})
	require.Equal(t, http.StatusOK, st, string(body))

	assert.Equal(t, "huge", s.records[4][5])
}

func TestHTTP_ReconcileErrors(t *testing.T) {
	s := seededStore(t)
	ts := newTestServer(t, s)

	// dos filas menos: ambiguo
	st, _ := doJSON(t, http.MethodPut, ts.URL+"/api/events/recent?n=3", map[string]any{
		"rows": []map[string]string{{"Event Type": "Poo", "Start": "2024-03-01 06:00 AM", "Comment": "big one"}},
	})
	assert.Equal(t, http.StatusConflict, st)

	st, _ = doJSON(t, http.MethodPut, ts.URL+"/api/events/recent?n=1", map[string]any{
		"rows": []map[string]string{{"Event Type": "Poo", "Mood": "happy"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, st)

	st, _ = doJSON(t, http.MethodPut, ts.URL+"/api/events/recent", "not an object")
	assert.Equal(t, http.StatusBadRequest, st)

	assert.Len(t, s.records, 5)
	assert.Zero(t, s.deleted)
}

func TestHTTP_CreateErrors(t *testing.T) {
	ts := newTestServer(t, newTestStore(t))

	tests := []map[string]any{
		{"kind": "Bath", "start": "2024-03-01 08:00 AM"},
		{"kind": "Pee", "start": "tomorrow"},
		{"kind": "Food", "start": "2024-03-01 08:00 AM", "end": "2024-03-01 08:20 AM", "source": "Spoon"},
		{"kind": "Sleep", "start": "2024-03-01 08:00 AM", "end": "2024-03-01 07:00 AM"},
	}
	for _, body := range tests {
		st, raw := doJSON(t, http.MethodPost, ts.URL+"/api/events", body)
		assert.Equal(t, http.StatusBadRequest, st, "%v: %s", body, raw)
	}
}

func TestHTTP_ListAndSummary(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	st, body := doJSON(t, http.MethodGet, ts.URL+"/api/events?types=Food&limit=10", nil)
	require.Equal(t, http.StatusOK, st, string(body))
	var items []EventResponse
	require.NoError(t, sonic.Unmarshal(body, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Bottle", items[0].Source)
	assert.Equal(t, 4.0, items[0].Ounces)

	st, _ = doJSON(t, http.MethodGet, ts.URL+"/api/events?types=Bath", nil)
	assert.Equal(t, http.StatusBadRequest, st)

	st, body = doJSON(t, http.MethodGet, ts.URL+"/api/summary?days=1", nil)
	require.Equal(t, http.StatusOK, st, string(body))
	var sums []DaySummaryResponse
	require.NoError(t, sonic.Unmarshal(body, &sums))
	require.Len(t, sums, 1)
	assert.Equal(t, "2024-03-01", sums[0].Day)
	assert.Equal(t, 2, sums[0].Feeds)
}

func TestHTTP_NowAndSchema(t *testing.T) {
	ts := newTestServer(t, newTestStore(t))

	st, body := doJSON(t, http.MethodGet, ts.URL+"/api/now", nil)
	require.Equal(t, http.StatusOK, st)
	assert.JSONEq(t, `{"now":"2024-03-01 02:07 PM"}`, string(body))

	st, body = doJSON(t, http.MethodGet, ts.URL+"/api/schema", nil)
	require.Equal(t, http.StatusOK, st)
	assert.JSONEq(t, `{"columns":["Event Type","Start","Duration","Source","Ounces","Comment"]}`, string(body))
}

func TestStatusFor(t *testing.T) {
	tests := map[error]int{
		ErrInvalidInput:      http.StatusBadRequest,
		ErrMalformedDuration: http.StatusBadRequest,
		ErrMalformedRecord:   http.StatusBadRequest,
		ErrRecordNotFound:    http.StatusNotFound,
		ErrAmbiguousDeletion: http.StatusConflict,
		ErrSchemaMismatch:    http.StatusUnprocessableEntity,
		ErrStoreUnavailable:  http.StatusServiceUnavailable,
		errors.New("boom"):   http.StatusInternalServerError,
	}
	for err, want := range tests {
		assert.Equal(t, want, StatusFor(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
}
