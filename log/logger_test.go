package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/coresdk/errors"
	"github.com/kochabx/coresdk/log/writer"
)

func TestLog(t *testing.T) {
	logger := New()
	logger.Debug().Msg("test debug message")
	logger.Info().Str("key", "value").Msg("test info with field")
	logger.Error().Err(errors.New(400, "test")).Msg("test error")
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, WithLevel(zerolog.WarnLevel), WithFields(map[string]any{"component": "core"}))

	logger.Info().Msg("dropped")
	logger.Warn().Int("status_code", 503).Msg("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"status_code":503`)
	assert.Contains(t, out, `"component":"core"`)
}

func TestConsoleTo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(writer.ConsoleTo(&buf))
	logger.Info().Msg("console line")
	assert.Contains(t, buf.String(), "| INFO  |")
}

func TestGlobalLog(t *testing.T) {
	prev := G()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	var buf bytes.Buffer
	SetGlobalLogger(NewWriter(&buf))
	SetGlobalLogger(nil)

	Info().Msg("global info")
	Warn().Msg("global warn")
	Error().Err(errors.New(500, "boom")).Msg("global error")

	assert.Contains(t, buf.String(), "global info")
	assert.Contains(t, buf.String(), "global error")
}

func TestFileLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewFile(FileConfig{
		Filepath:   dir,
		Filename:   "test",
		RotateMode: writer.RotateModeSize,
	})
	require.NoError(t, err)

	logger.Info().Msg("test file log")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test file log")
}

func TestFromConfig(t *testing.T) {
	logger, err := FromConfig(Config{Level: "debug"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger, err = FromConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	var buf bytes.Buffer
	logger, err = FromConfig(Config{Caller: true}, func(l *Logger) { l.Logger = l.Output(&buf) })
	require.NoError(t, err)
	logger.Info().Msg("with caller")
	assert.Contains(t, buf.String(), `"caller"`)

	_, err = FromConfig(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = FromConfig(Config{Output: "syslog"})
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 400, e.GetCode())

	logger, err = FromConfig(Config{
		Level:  "warn",
		Output: OutputMulti,
		File: FileConfig{
			Filepath:   t.TempDir(),
			RotateMode: writer.RotateModeTime,
		},
	})
	require.NoError(t, err)
	defer logger.Close()
	logger.Warn().Str("type", "multi").Msg("test multi output log")
}
