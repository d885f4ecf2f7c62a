package logger_test

import (
	"bytes"
	"testing"

	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevelString(t *testing.T) {
	t.Cleanup(func() { _ = logger.SetLevelString("info") })

	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", " INFO "} {
		require.NoError(t, logger.SetLevelString(level), level)
	}

	err := logger.SetLevelString("loud")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestConsoleOutput(t *testing.T) {
	t.Cleanup(func() { _ = logger.SetLevelString("info") })
	require.NoError(t, logger.SetLevelString("info"))

	var buf bytes.Buffer
	log := logger.New(&buf, true).With("market")

	log.Info().Int("rows", 12).Msg("Saved market table")
	log.Debug().Msg("hidden at info level")

	out := buf.String()
	assert.Contains(t, out, "Saved market table")
	assert.Contains(t, out, "rows=12")
	assert.Contains(t, out, "component=market")
	assert.NotContains(t, out, "hidden at info level")
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, true)

	err := errors.New().WithMessage(errors.ErrBuild, "workbook save failed")
	log.ErrorWithContext(err, "report", "save").Msg("Build failed")

	out := buf.String()
	assert.Contains(t, out, "error_code=build_failed")
	assert.Contains(t, out, "operation=save")
}
