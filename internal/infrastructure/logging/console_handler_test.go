package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/churnpilot-backend/internal/infrastructure/config"
)

func TestConsoleHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil))

	logger.Info("card saved", "card_id", "abc", "benefits", 3)

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "card saved")
	assert.Contains(t, out, "card_id=abc")
	assert.Contains(t, out, "benefits=3")
	// Not a terminal, so no ANSI escapes.
	assert.NotContains(t, out, "\033[")
}

func TestConsoleHandler_SystemBracket(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil)).With("system", "importer")

	logger.Info("row skipped")

	out := buf.String()
	assert.Contains(t, out, "[importer]")
	assert.NotContains(t, out, "system=importer")
}

func TestConsoleHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	logger := slog.New(NewConsoleHandler(&buf, opts))

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] ")
	assert.Contains(t, out, "visible")
}

func TestNewLogger_JSONFormat(t *testing.T) {
	// Smoke test: json format must produce a working logger.
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "json"})
	assert.NotNil(t, logger)
}
