package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		entries = append(entries, m)
	}
	return entries
}

func TestLogger_ProjectContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Project: "ET1", Output: &buf})

	l.Info("run started", map[string]any{"results": 3})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "run started", entries[0]["message"])
	assert.Equal(t, "ET1", entries[0]["project"])
	assert.Contains(t, entries[0], "timestamp")
	assert.Equal(t, map[string]any{"results": float64(3)}, entries[0]["fields"])
	assert.NotContains(t, entries[0], "run_id")
}

func TestLogger_WithRunID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Project: "ET1", Output: &buf}).WithRunID(99)

	l.Warn("complete failed", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(99), entries[0]["run_id"])
	assert.Equal(t, "warn", entries[0]["level"])
}

func TestLogger_DebugLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer

	NewLogger(Options{Output: &quiet}).Debug("hidden", nil)
	NewLogger(Options{Output: &verbose, Debug: true}).Debug("shown", nil)

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "shown")
}

func TestLogger_Sugar(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogger(Options{Project: "ET1", Output: &buf}).Sugar().With("command", "submit")

	s.Errorf("failed: %d results", 2)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed: 2 results", entries[0]["message"])
	assert.Equal(t, "submit", entries[0]["command"])
	assert.Equal(t, "ET1", entries[0]["project"])
}

func TestLogger_NilAndNop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("x", nil)
		l.WithRunID(1).Error("y", nil)
		l.Sugar().Infof("z")
		_ = l.Sync()
		Nop().Info("discarded", nil)
	})
}
