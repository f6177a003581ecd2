package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", Debug},
		{" WARN ", Warn},
		{"warning", Warn},
		{"error", Error},
		{"", Info},
		{"bogus", Info},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestStdLogger_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Output: &buf, App: "babylog"})

	l.Info("skipped", nil)
	l.Warn("kept", map[string]any{"rows": 3})

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "rows=3")
	assert.Contains(t, out, "app=babylog")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestStdLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, Output: &buf}).
		With(map[string]any{"component": "events"})

	l.Debug("event appended", map[string]any{"kind": "Food", "": "ignored"})

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "event appended", entry["msg"])
	assert.Equal(t, "events", entry["component"])
	assert.Equal(t, "Food", entry["kind"])
	_, hasEmpty := entry[""]
	assert.False(t, hasEmpty)
}

func TestNop(t *testing.T) {
	l := Nop().With(map[string]any{"a": 1})
	l.Error("nothing", nil)
}
