package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logFile := filepath.Join(t.TempDir(), "logs", "virtualize.log")
	Setup(logFile, true)
	require.True(t, Initialized())

	slog.Debug("Fetching items", "start", 3)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Fetching items"`)
	assert.Contains(t, string(data), `"start":3`)
}

func TestConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := Console(&buf, false)
	logger.Debug("hidden")
	logger.Info("Rendered layout", "slots", 5)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Rendered layout")
	assert.Contains(t, out, "slots=5")
}

func TestRecoverPanicRunsCleanup(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
		panic("boom")
	}()
	assert.True(t, cleaned)

	matches, err := filepath.Glob(filepath.Join(dir, "virtualize-panic-test-*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
