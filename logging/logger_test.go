package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = NoOpLogger{}
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("unknown"))
}

func TestNewWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)
	logger.Info("chat.turn.complete", "session_id", "abc", "rounds", 2)

	out := buf.String()
	assert.Contains(t, out, "chat.turn.complete")
	assert.Contains(t, out, `"session_id":"abc"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New("error", "text", &buf)
	logger.Debug("dropped")
	logger.Info("dropped too")
	assert.Empty(t, buf.String())

	logger.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}
