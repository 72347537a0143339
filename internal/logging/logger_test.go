package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level, format Format) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Options{
		Level:   level,
		Output:  &buf,
		Format:  format,
		NoColor: true,
	}), &buf
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"CRITICAL", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("debug"))
	assert.True(t, IsValidLevel("WARNING"))
	assert.False(t, IsValidLevel("trace"))
	assert.False(t, IsValidLevel(""))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatLogfmt, ParseFormat("logfmt"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, LevelInfo, opts.Level)
	assert.Equal(t, os.Stderr, opts.Output)
	assert.Equal(t, FormatText, opts.Format)
}

func TestLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		level       Level
		expectDebug bool
		expectInfo  bool
		expectWarn  bool
	}{
		{"debug", LevelDebug, true, true, true},
		{"info", LevelInfo, false, true, true},
		{"warn", LevelWarn, false, false, true},
		{"error", LevelError, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.level, FormatText)

			logger.Debug("debug-msg")
			logger.Info("info-msg")
			logger.Warn("warn-msg")
			logger.Error("error-msg")

			out := buf.String()
			assert.Equal(t, tt.expectDebug, strings.Contains(out, "debug-msg"))
			assert.Equal(t, tt.expectInfo, strings.Contains(out, "info-msg"))
			assert.Equal(t, tt.expectWarn, strings.Contains(out, "warn-msg"))
			assert.Contains(t, out, "error-msg")
		})
	}
}

func TestLoggerKeyValues(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatLogfmt)

	logger.Info("check passed", "pattern", "*ok*", "exit_code", 0)

	out := buf.String()
	assert.Contains(t, out, "check passed")
	assert.Contains(t, out, "pattern=*ok*")
	assert.Contains(t, out, "exit_code=0")
}

func TestLoggerJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.Info("ran", "command", "vagrant up")

	assert.Contains(t, buf.String(), `"msg":"ran"`)
	assert.Contains(t, buf.String(), `"command":"vagrant up"`)
}

func TestLoggerWithFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatLogfmt)

	child := logger.WithFields("run_id", "abc").WithFields("check", "status")
	child.Info("done", "exit_code", 1)
	logger.Info("parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run_id=abc")
	assert.Contains(t, lines[0], "check=status")
	assert.Contains(t, lines[0], "exit_code=1")
	assert.NotContains(t, lines[1], "run_id")
}

func TestLoggerWithPrefix(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.WithPrefix("suite").Info("loaded")

	assert.Contains(t, buf.String(), "suite")
	assert.Contains(t, buf.String(), "loaded")
}

func TestLoggerSetLevel(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.Debug("hidden")
	logger.SetLevel(LevelDebug)
	logger.Debug("shown")

	assert.Equal(t, LevelDebug, logger.GetLevel())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerNoColor(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.Error("no color message")

	assert.False(t, strings.Contains(buf.String(), "\x1b["), "output should not contain ANSI escape codes")
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	assert.NotPanics(t, func() {
		logger.Debug("x")
		logger.Info("x")
		logger.Warn("x")
		logger.Error("x")
		logger.WithPrefix("p").WithFields("k", "v").SetLevel(LevelError)
	})
	assert.Equal(t, LevelInfo, logger.GetLevel())
}

func TestMultiLogger(t *testing.T) {
	console, consoleBuf := newBufferLogger(LevelInfo, FormatText)
	file, fileBuf := newBufferLogger(LevelDebug, FormatLogfmt)

	multi := NewMultiLogger(console, file).WithFields("run_id", "r1")
	multi.Debug("detail")
	multi.Info("summary")

	assert.NotContains(t, consoleBuf.String(), "detail")
	assert.Contains(t, consoleBuf.String(), "summary")
	assert.Contains(t, fileBuf.String(), "detail")
	assert.Contains(t, fileBuf.String(), "run_id=r1")
}

func TestMultiLoggerSetLevelOnlyTouchesFirst(t *testing.T) {
	console, _ := newBufferLogger(LevelInfo, FormatText)
	file, _ := newBufferLogger(LevelDebug, FormatLogfmt)

	multi := NewMultiLogger(console, file)
	multi.SetLevel(LevelError)

	assert.Equal(t, LevelError, multi.GetLevel())
	assert.Equal(t, LevelError, console.GetLevel())
	assert.Equal(t, LevelDebug, file.GetLevel())
	assert.Equal(t, LevelInfo, NewMultiLogger().GetLevel())
}

func TestFileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "runcheck.log")

	logger, closeFn, err := NewFileLogger(logPath, LevelDebug)
	require.NoError(t, err)
	logger.Debug("file log message", "key", "value")
	require.NoError(t, closeFn())

	logger2, closeFn2, err := NewFileLogger(logPath, LevelInfo)
	require.NoError(t, err)
	logger2.Info("second message")
	require.NoError(t, closeFn2())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file log message")
	assert.Contains(t, string(content), "key=value")
	assert.Contains(t, string(content), "second message")
}

func TestFileLoggerError(t *testing.T) {
	logger, closeFn, err := NewFileLogger("/nonexistent/directory/test.log", LevelInfo)
	assert.Error(t, err)
	assert.Nil(t, logger)
	assert.Nil(t, closeFn)
}

func TestThreadSafety(t *testing.T) {
	var buf safeBuffer
	logger := New(Options{Level: LevelDebug, Output: &buf, NoColor: true})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l := logger.WithFields("worker", n)
			for j := 0; j < 20; j++ {
				l.Info("tick", "j", j)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 200, strings.Count(buf.String(), "tick"))
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
