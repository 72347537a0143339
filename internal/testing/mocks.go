package testing

import (
	"strings"
	"sync"

	"github.com/tungetti/runcheck/internal/logging"
)

// ============================================================================
// MockLogger - Implements logging.Logger for testing
// ============================================================================

// LogMessage represents a recorded log message.
type LogMessage struct {
	Level   logging.Level
	Message string
	Fields  []interface{}
}

// Field returns the value logged for key, if any.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for i := 0; i+1 < len(m.Fields); i += 2 {
		if k, ok := m.Fields[i].(string); ok && k == key {
			return m.Fields[i+1], true
		}
	}
	return nil, false
}

// logStore is shared by a MockLogger and every logger derived from it.
type logStore struct {
	mu       sync.Mutex
	messages []LogMessage
	level    logging.Level
}

// MockLogger implements logging.Logger and records every message at or
// above its level. Loggers returned by WithPrefix and WithFields record into
// the same store.
type MockLogger struct {
	store  *logStore
	prefix string
	fields []interface{}
}

// NewMockLogger creates a MockLogger that records at debug level.
func NewMockLogger() *MockLogger {
	return &MockLogger{store: &logStore{level: logging.LevelDebug}}
}

func (m *MockLogger) Debug(msg string, keyvals ...interface{}) {
	m.record(logging.LevelDebug, msg, keyvals)
}

func (m *MockLogger) Info(msg string, keyvals ...interface{}) {
	m.record(logging.LevelInfo, msg, keyvals)
}

func (m *MockLogger) Warn(msg string, keyvals ...interface{}) {
	m.record(logging.LevelWarn, msg, keyvals)
}

func (m *MockLogger) Error(msg string, keyvals ...interface{}) {
	m.record(logging.LevelError, msg, keyvals)
}

// WithPrefix returns a logger whose messages are recorded as "prefix: msg".
func (m *MockLogger) WithPrefix(prefix string) logging.Logger {
	return &MockLogger{store: m.store, prefix: prefix, fields: m.fields}
}

// WithFields returns a logger that records keyvals with every message.
func (m *MockLogger) WithFields(keyvals ...interface{}) logging.Logger {
	fields := make([]interface{}, 0, len(m.fields)+len(keyvals))
	fields = append(fields, m.fields...)
	fields = append(fields, keyvals...)
	return &MockLogger{store: m.store, prefix: m.prefix, fields: fields}
}

// SetLevel sets the minimum recorded level for the whole logger family.
func (m *MockLogger) SetLevel(level logging.Level) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.level = level
}

func (m *MockLogger) GetLevel() logging.Level {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.level
}

func (m *MockLogger) record(level logging.Level, msg string, keyvals []interface{}) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if level < m.store.level {
		return
	}

	fields := make([]interface{}, 0, len(m.fields)+len(keyvals))
	fields = append(fields, m.fields...)
	fields = append(fields, keyvals...)

	if m.prefix != "" {
		msg = m.prefix + ": " + msg
	}
	m.store.messages = append(m.store.messages, LogMessage{Level: level, Message: msg, Fields: fields})
}

// Messages returns a copy of all recorded messages.
func (m *MockLogger) Messages() []LogMessage {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return append([]LogMessage{}, m.store.messages...)
}

// MessagesAtLevel returns the recorded messages at level.
func (m *MockLogger) MessagesAtLevel(level logging.Level) []LogMessage {
	var out []LogMessage
	for _, msg := range m.Messages() {
		if msg.Level == level {
			out = append(out, msg)
		}
	}
	return out
}

// Clear removes all recorded messages.
func (m *MockLogger) Clear() {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.messages = nil
}

// ContainsMessage reports whether any recorded message contains substring.
func (m *MockLogger) ContainsMessage(substring string) bool {
	for _, msg := range m.Messages() {
		if strings.Contains(msg.Message, substring) {
			return true
		}
	}
	return false
}

// ContainsMessageAtLevel is ContainsMessage restricted to one level.
func (m *MockLogger) ContainsMessageAtLevel(level logging.Level, substring string) bool {
	for _, msg := range m.MessagesAtLevel(level) {
		if strings.Contains(msg.Message, substring) {
			return true
		}
	}
	return false
}

var _ logging.Logger = (*MockLogger)(nil)
