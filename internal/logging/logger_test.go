package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/turing/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FansOutToFile(t *testing.T) {
	var text, file bytes.Buffer
	logger := logging.New(slog.LevelInfo, logging.Options{Writer: &text, File: &file})

	logger.Debug("hidden")
	logger.Info("loaded machine", "machine", "Palindrome Checker", "error", errors.New("boom"))

	assert.NotContains(t, text.String(), "hidden")
	assert.Contains(t, text.String(), "loaded machine")
	assert.Contains(t, text.String(), "err=boom")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "Palindrome Checker", record["machine"])
	assert.Equal(t, "boom", record["err"])
}

func TestParseLevel(t *testing.T) {
	level, err := logging.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)
}
