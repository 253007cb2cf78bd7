package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpulse/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{
			name: "console output",
			cfg:  config.LoggingConfig{Level: "info", Output: "console"},
		},
		{
			name: "file output",
			cfg: config.LoggingConfig{
				Level:    "debug",
				Output:   "file",
				FilePath: filepath.Join(t.TempDir(), "logs", "test.log"),
			},
		},
		{
			name: "unknown level falls back to info",
			cfg:  config.LoggingConfig{Level: "bogus", Output: "console"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestTraceHandler_InjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	handler := &traceHandler{Handler: slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := WithTraceID(context.Background(), "abc-123")
	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "abc-123", record["trace_id"])
}

func TestGetTraceID_Absent(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}
