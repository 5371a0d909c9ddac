// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mindsetos/teamreport/internal/config"
)

// -- Test Helper Functions --

// bufferSyncer is an in-memory WriteSyncer for capturing log output.
type bufferSyncer struct {
	bytes.Buffer
}

func (b *bufferSyncer) Sync() error { return nil }

// -- Test Cases --

func TestNew(t *testing.T) {
	t.Run("console logger colorizes levels and names components", func(t *testing.T) {
		var buf bufferSyncer
		logger := New(config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "teamreport",
			Colors:      config.ColorConfig{Info: "green"},
		}, &buf)

		logger.Named("reportgen").Info("Generating report.")
		output := buf.String()
		assert.Contains(t, output, "\x1b[32mINFO"+colorReset)
		assert.Contains(t, output, "teamreport.reportgen.")
		assert.Contains(t, output, "Generating report.")
	})

	t.Run("unknown color names fall back to plain levels", func(t *testing.T) {
		var buf bufferSyncer
		logger := New(config.LoggerConfig{Format: "console", Colors: config.ColorConfig{Warn: "ultraviolet"}}, &buf)
		logger.Warn("careful")
		assert.Contains(t, buf.String(), "WARN")
		assert.NotContains(t, buf.String(), colorReset)
	})

	t.Run("json logger", func(t *testing.T) {
		var buf bufferSyncer
		logger := New(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "JSONTest"}, &buf)
		logger.Warn("This is a JSON message.", zap.String("key", "value"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "Log output should be valid JSON")
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "JSONTest", entry["logger"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("level filtering and invalid levels", func(t *testing.T) {
		var buf bufferSyncer
		logger := New(config.LoggerConfig{Level: "not-a-level", Format: "json"}, &buf)
		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("log file receives json lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "teamreport.log")
		var buf bufferSyncer
		logger := New(config.LoggerConfig{Level: "debug", Format: "console", LogFile: path, MaxSize: 1}, &buf)
		logger.Error("This should go to the file.")
		require.NoError(t, logger.Sync())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"msg":"This should go to the file."`)
	})
}

func TestInitialize(t *testing.T) {
	t.Run("should only initialize once", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		var buf bufferSyncer
		Initialize(config.LoggerConfig{Level: "info", ServiceName: "First"}, zapcore.AddSync(&buf))
		logger1 := GetLogger()
		Initialize(config.LoggerConfig{Level: "debug", ServiceName: "Second"}, zapcore.AddSync(&buf))
		logger2 := GetLogger()

		assert.Same(t, logger1, logger2)
		logger2.Info("test")
		Sync()
		assert.True(t, strings.Contains(buf.String(), "First"))
		assert.False(t, strings.Contains(buf.String(), "Second"))
	})
}

func TestGetLogger(t *testing.T) {
	t.Run("should return a fallback logger if not initialized", func(t *testing.T) {
		ResetForTest()
		require.NotNil(t, GetLogger())
	})

	t.Run("should return the global logger after initialization", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)
		Initialize(config.LoggerConfig{Level: "info", ServiceName: "GlobalTest"}, zapcore.AddSync(&bufferSyncer{}))
		assert.Equal(t, globalLogger.Load(), GetLogger())
	})
}
