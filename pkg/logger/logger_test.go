package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	t.Run("Initialize logger with valid path", func(t *testing.T) {
		err := Init(logPath, "debug")
		assert.NoError(t, err)
		defer os.Remove(logPath)

		// Test all log levels
		Info("info message")
		Debug("debug message")
		Warn("warn message")
		Error("error message")

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)

		lines := nonEmptyLines(string(content))
		require.Len(t, lines, 4)

		logLevels := []string{"info", "debug", "warn", "error"}
		messages := []string{"info message", "debug message", "warn message", "error message"}

		for i, line := range lines {
			var entry map[string]interface{}
			err := json.Unmarshal([]byte(line), &entry)
			require.NoError(t, err)

			assert.Equal(t, logLevels[i], entry["level"])
			assert.Equal(t, messages[i], entry["msg"])
			assert.Contains(t, entry, "timestamp")
		}
	})

	t.Run("Level filtering", func(t *testing.T) {
		filteredPath := filepath.Join(t.TempDir(), "filtered.log")
		require.NoError(t, Init(filteredPath, "warn"))

		Debug("dropped")
		Info("dropped too")
		Warn("kept")

		content, err := os.ReadFile(filteredPath)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "dropped")
		assert.Contains(t, string(content), "kept")
	})

	t.Run("Unknown level falls back to info", func(t *testing.T) {
		fallbackPath := filepath.Join(t.TempDir(), "fallback.log")
		require.NoError(t, Init(fallbackPath, "loud"))

		Debug("debug dropped")
		Info("info kept")

		content, err := os.ReadFile(fallbackPath)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "debug dropped")
		assert.Contains(t, string(content), "info kept")
	})

	t.Run("Initialize logger with invalid path", func(t *testing.T) {
		invalidPath := filepath.Join("/nonexistent", "dir", "test.log")
		err := Init(invalidPath, "info")
		assert.Error(t, err)
	})
}

func TestLoggerWithoutInit(t *testing.T) {
	// Reset the logger
	log = nil

	// These should not panic
	Info("test info")
	Error("test error")
	Debug("test debug")
	Warn("test warn")
	Fatal("test fatal") // Note: Fatal would normally exit, but we're testing with nil logger
	err := Sync()
	assert.NoError(t, err)
}

func TestLoggerFatal(t *testing.T) {
	// Enable test mode to prevent os.Exit
	SetTestMode(true)
	defer SetTestMode(false)

	logPath := filepath.Join(t.TempDir(), "fatal.log")
	err := Init(logPath, "info")
	require.NoError(t, err)

	Fatal("This is a fatal message")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	require.Contains(t, string(content), "This is a fatal message")
	require.Contains(t, string(content), "level\":\"error\"")
}

func TestLoggerSync(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "sync.log")

	err := Init(logPath, "info")
	require.NoError(t, err)

	Info("info message")
	Error("error message")

	err = Sync()
	assert.NoError(t, err)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotEmpty(t, content)

	// Sync with uninitialized logger
	log = nil
	err = Sync()
	assert.NoError(t, err)
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
