package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).With(String("component", "test"))

	l.Info("hello", Int("n", 3))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "test", ctx["component"])
	assert.EqualValues(t, 3, ctx["n"])
}

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	l.Debug("ok")
	NewNop().Error("discarded")
}
