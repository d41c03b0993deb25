package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestLogger_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.WithField("event_id", "e1").WithError(errors.New("boom")).Info("restore failed")

	line := logLine(t, &buf)
	assert.Equal(t, "restore failed", line["msg"])
	assert.Equal(t, "e1", line["event_id"])
	assert.Equal(t, "boom", line["error"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.Info("suppressed")
	assert.Empty(t, buf.Bytes())

	logger.Warn("emitted")
	assert.NotEmpty(t, buf.Bytes())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{input: "debug", want: DebugLevel},
		{input: "DEBUG", want: DebugLevel},
		{input: "info", want: InfoLevel},
		{input: "warn", want: WarnLevel},
		{input: "error", want: ErrorLevel},
		{input: "garbage", want: InfoLevel},
		{input: "", want: InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLogLevel(tt.input), "input %q", tt.input)
	}
}

func TestFromContext_EnrichesWithRequestMetadata(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-7")
	ctx = WithActor(ctx, "alice")

	FromContext(ctx).Info("hello")

	line := logLine(t, &buf)
	assert.Equal(t, "req-7", line["request_id"])
	assert.Equal(t, "alice", line["actor"])
}

func TestGetActor_MissingIsEmpty(t *testing.T) {
	assert.Empty(t, GetActor(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))
}
