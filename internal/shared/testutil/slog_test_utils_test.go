package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		assert.Equal(t, 4, handler.Count())
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("run_id", "abc")).Info("child")
		logger.WithGroup("file").Info("grouped", slog.String("name", "Bhadla"))

		require.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsAttr("run_id", "abc"))
		assert.True(t, handler.ContainsAttr("file.name", "Bhadla"))
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		require.Equal(t, 2, handler.Count())

		handler.Clear()
		assert.Zero(t, handler.Count())
	})
}

func TestFixtures(t *testing.T) {
	dir := t.TempDir()

	path := WriteCSV(t, dir, "a.csv", OscillationRows([3]string{"01/01/2024 00:00", "50.0", "1.0"}))
	assert.FileExists(t, path)

	path = WriteXLSX(t, dir, "b.xlsx", [][]any{{"STARTDATE", "HZ", "VPM"}, {45292.0, 50.0, 1.0}})
	assert.FileExists(t, path)
}
