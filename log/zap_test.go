// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger(t *testing.T) {
	t.Run("With fake level falls back to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(42, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		require.NoError(t, logger.Flush())

		msg, lvl := decodeEntry(t, buffer.Bytes())
		require.Equal(t, "test debug", msg)
		require.Equal(t, DebugLevel.String(), lvl)
	})
	t.Run("With info level skips debug entries", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())
		require.False(t, logger.Enabled(DebugLevel))
		require.True(t, logger.Enabled(ErrorLevel))

		logger.Debug("hidden")
		require.Empty(t, buffer.Bytes())

		logger.Infof("hello %s", "actor")
		msg, lvl := decodeEntry(t, buffer.Bytes())
		require.Equal(t, "hello actor", msg)
		require.Equal(t, InfoLevel.String(), lvl)
	})
	t.Run("With warn and error levels", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		require.Equal(t, WarningLevel, logger.LogLevel())

		logger.Warnf("careful %d", 1)
		msg, lvl := decodeEntry(t, buffer.Bytes())
		require.Equal(t, "careful 1", msg)
		require.Equal(t, "warn", lvl)

		buffer.Reset()
		logger.Errorf("failed %d", 2)
		msg, lvl = decodeEntry(t, buffer.Bytes())
		require.Equal(t, "failed 2", msg)
		require.Equal(t, ErrorLevel.String(), lvl)
	})
	t.Run("With panic level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(PanicLevel, buffer)
		require.Equal(t, PanicLevel, logger.LogLevel())
		assert.Panics(t, func() { logger.Panic("boom") })
		assert.Panics(t, func() { logger.Panicf("boom %d", 1) })
	})
	t.Run("LogOutput and StdLogger", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Equal(t, []io.Writer{buffer}, logger.LogOutput())
		std := logger.StdLogger()
		require.NotNil(t, std)
		std.Print("from std")
		msg, _ := decodeEntry(t, buffer.Bytes())
		require.Equal(t, "from std", msg)
	})
}

func TestLogWith(t *testing.T) {
	t.Run("With adds structured fields to output", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("actor", "app.worker", "system", "app").Info("started")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "actor")
		require.Contains(t, m, "system")
	})
	t.Run("With returns same logger when keyValues empty", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
	})
	t.Run("With odd keyValues uses _ for orphan", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("a", 1, "orphan").Info("msg")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "a")
		require.Contains(t, m, "_")
	})
	t.Run("With all non-string keys returns same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With(1, 2, 3, 4))
	})
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Info("nothing")
	logger.Debugf("nothing %d", 1)
	logger.Warn("nothing")
	logger.Error("nothing")
	assert.Equal(t, PanicLevel, logger.LogLevel())
	assert.False(t, logger.Enabled(ErrorLevel))
	assert.True(t, logger.Enabled(PanicLevel))
	assert.True(t, logger.Enabled(FatalLevel))
	assert.False(t, logger.With("k", "v").Enabled(InfoLevel))
	assert.Equal(t, []io.Writer{io.Discard}, logger.LogOutput())
	assert.NotNil(t, logger.StdLogger())
	assert.NoError(t, logger.Flush())
	assert.Panics(t, func() { logger.Panic("boom") })
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", InfoLevel.String())
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Equal(t, "invalid", Level(99).String())
}

func decodeEntry(t *testing.T, raw []byte) (string, string) {
	t.Helper()
	var entry struct {
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(raw, &entry))
	return entry.Msg, entry.Level
}
