package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestWithLogger_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "json")

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Debug("hello", "k", "v")

	require.Contains(t, buf.String(), `"msg":"hello"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}

func TestNew_LevelAndFormat(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		contains  string
	}{
		{name: "json info drops debug", level: "info", format: "json", wantDebug: false, contains: `"msg":"info-line"`},
		{name: "text debug", level: "DEBUG", format: "text", wantDebug: true, contains: "msg=info-line"},
		{name: "bad level falls back to info", level: "loud", format: "json", wantDebug: false, contains: `"level":"INFO"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.level, tt.format)

			l.Debug("debug-line")
			l.Info("info-line")

			require.Contains(t, buf.String(), tt.contains)
			require.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug-line")))
		})
	}
}
