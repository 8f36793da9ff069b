package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catadder/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "INFO: info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "WARN: warn message")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "ERROR: error message")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	SetDebug(false)
	l.Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	l.Debug("debug message")
	assert.Contains(t, buf.String(), "DEBUG: debug message")
	buf.Reset()

	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("path", "/data/"), F("entries", 3)).Info("listing refreshed")
	output := buf.String()
	assert.Contains(t, output, "listing refreshed")
	assert.Contains(t, output, "path=/data/")
	assert.Contains(t, output, "entries=3")
	buf.Reset()

	l.With(F("tab", "Local")).With(F("ready", true)).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "tab=Local")
	assert.Contains(t, output, "ready=true")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("location", "https://example.com/cat.yaml"), F("sources", 2)).Info("catalog added")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "catalog added", entry["message"])
	assert.Equal(t, "https://example.com/cat.yaml", entry["location"])
	assert.Equal(t, float64(2), entry["sources"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry, "caller")
}

func TestCallerInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("caller test")
	assert.Contains(t, buf.String(), "caller=logger_test.go:")
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithFields(F("error", "standard error")).Error("error occurred")
	assert.Contains(t, buf.String(), "error=standard error")
	buf.Reset()

	fileErr := errors.NewFileError("not a directory", "/no/such/dir", errors.InvalidPath, nil)
	LogWithError(fileErr).Warn("path rejected")
	output := buf.String()
	assert.Contains(t, output, "path rejected")
	assert.Contains(t, output, "path=/no/such/dir")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", errors.InvalidPath))
	buf.Reset()

	catErr := errors.NewCatalogError("failed to open catalog", "https://example.com/x.yaml", errors.CatalogOpenFailed, fmt.Errorf("timeout"))
	LogError(catErr, "submit failed")
	output = buf.String()
	assert.Contains(t, output, "submit failed")
	assert.Contains(t, output, "location=https://example.com/x.yaml")
	assert.Contains(t, output, "caller=logger_test.go:")
	buf.Reset()

	configErr := errors.NewConfigError("invalid value", "remote.timeout", errors.InvalidConfig, nil)
	LogWithError(configErr).Error("config rejected")
	assert.Contains(t, buf.String(), "param=remote.timeout")
}

func TestNilErrorHandling(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithError(nil).Error("nil error test")
	output := buf.String()
	assert.Contains(t, output, "nil error test")
	assert.Contains(t, output, "error=<nil>")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.WithContext(context.Background()).Info("context message")
	assert.Contains(t, buf.String(), "context message")
}

func TestFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "catadder.log")

	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithFile(logPath))
	defer l.Close()

	l.Info("file test message")
	assert.Contains(t, buf.String(), "file test message")

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file test message")
}

func TestConfigure(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	var buf bytes.Buffer
	Configure(WithOutput(&buf), WithJSON())
	Info("global config test")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "global config test", entry["message"])
}
