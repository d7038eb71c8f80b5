package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, slog.LevelDebug, "json"))

	LogInfo("classified", Fields{"category": "7"})
	LogDebug("debugging", nil)
	LogError(errors.New("boom"), "failed", Fields{"request_id": "abc"})

	out := buf.String()
	assert.Contains(t, out, `"msg":"classified"`)
	assert.Contains(t, out, `"category":"7"`)
	assert.Contains(t, out, `"msg":"debugging"`)
	assert.Contains(t, out, `"error":"boom"`)

	assert.Error(t, SetupLogger(&buf, slog.LevelInfo, "xml"))
}
