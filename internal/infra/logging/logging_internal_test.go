package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give string
		want slog.Level
	}{
		{give: "debug", want: slog.LevelDebug},
		{give: "info", want: slog.LevelInfo},
		{give: "warn", want: slog.LevelWarn},
		{give: "error", want: slog.LevelError},
		{give: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, ParseLevel(tt.give))
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		slog.New(newHandler(&buf, "", slog.LevelInfo)).Info("scaled", "kind", "Deployment")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "scaled", line["msg"])
		require.Equal(t, "Deployment", line["kind"])
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		slog.New(newHandler(&buf, "text", slog.LevelInfo)).Info("scaled")

		require.Contains(t, buf.String(), "msg=scaled")
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		slog.New(newHandler(&buf, "json", slog.LevelWarn)).Info("hidden")

		require.Empty(t, buf.String())
	})
}
