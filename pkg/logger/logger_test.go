package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelSilent, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("unknown"), "未知级别回退到 Info")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(LevelWarn, &buf)

	log.Debug("d")
	log.Info("i")
	log.Warn("w %d", 1)
	log.Error("e")

	out := buf.String()
	assert.NotContains(t, out, "[DEBUG]")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN] w 1\n")
	assert.Contains(t, out, "[ERROR] e\n")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(LevelSilent, &buf)

	log.Error("hidden")
	assert.Zero(t, buf.Len())

	log.SetLevel(LevelDebug)
	assert.True(t, log.IsDebugEnabled())
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.False(t, log.IsDebugEnabled())
	log.Error("discarded")
}
