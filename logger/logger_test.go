package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitializeDoesNotPanicBeforeUse(t *testing.T) {
	// Package init installs a no-op logger; helpers must be safe to call
	// before Initialize.
	Info("pre-init message")
	Warnw("pre-init structured", "key", "value")
}

func TestInitializeJSON(t *testing.T) {
	require.NoError(t, Initialize(true))
	assert.True(t, JSONOutput)
	assert.NotNil(t, Logger)
	Cleanup()
}

func TestInitializeConsole(t *testing.T) {
	require.NoError(t, Initialize(false))
	assert.False(t, JSONOutput)
	assert.NotNil(t, Logger)
	Cleanup()
}

func TestMinimalEncoderLine(t *testing.T) {
	enc := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		LoggerName: "kernel",
		Message:    "booted",
	}
	fields := []zapcore.Field{
		zap.Int("atoms", 412),
		zap.String("name", "daedalos"),
		zap.Bool("running", true),
	}

	buf, err := enc.EncodeEntry(entry, fields)
	require.NoError(t, err)
	line := buf.String()

	assert.Contains(t, line, "15:04:05")
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "kernel")
	assert.Contains(t, line, "booted")
	assert.Contains(t, line, "atoms=412")
	assert.Contains(t, line, "name=daedalos")
	assert.Contains(t, line, "running=true")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestMinimalEncoderClone(t *testing.T) {
	enc := newMinimalEncoder()
	clone := enc.Clone()
	require.NotNil(t, clone)

	entry := zapcore.Entry{Level: zapcore.WarnLevel, Time: time.Now(), Message: "cloned"}
	buf, err := clone.EncodeEntry(entry, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cloned")
}
