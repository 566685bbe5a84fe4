package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LoggerTestSuite defines a test suite for logger functions
type LoggerTestSuite struct {
	suite.Suite
	buffer *bytes.Buffer
}

func (suite *LoggerTestSuite) SetupTest() {
	suite.buffer = &bytes.Buffer{}
}

func (suite *LoggerTestSuite) lines() []string {
	out := strings.TrimSpace(suite.buffer.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func (suite *LoggerTestSuite) TestNewLogger() {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		l := NewLogger(level, "json")
		assert.NotNil(suite.T(), l)
		assert.IsType(suite.T(), &LogrusLogger{}, l)
	}
}

func (suite *LoggerTestSuite) TestLoggerLevels() {
	testCases := []struct {
		level string
		want  int
	}{
		{"debug", 4},
		{"info", 3},
		{"warn", 2},
		{"error", 1},
		{"unknown", 3},
		{"WARN", 2},
	}

	for _, tc := range testCases {
		suite.Run(tc.level, func() {
			suite.buffer.Reset()
			l := NewLoggerWithOutput(tc.level, "json", suite.buffer)
			l.Debug("debug")
			l.Info("info")
			l.Warn("warn")
			l.Error("error")
			assert.Len(suite.T(), suite.lines(), tc.want)
		})
	}
}

func (suite *LoggerTestSuite) TestJSONFormat() {
	l := NewLoggerWithOutput("info", "json", suite.buffer)
	l.Infof("quote %s confirmed at %d", "q-1", 500000)

	var entry map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(suite.buffer.Bytes(), &entry))
	assert.Equal(suite.T(), "info", entry["level"])
	assert.Equal(suite.T(), "quote q-1 confirmed at 500000", entry["msg"])
	assert.NotEmpty(suite.T(), entry["time"])
}

func (suite *LoggerTestSuite) TestTextFormat() {
	l := NewLoggerWithOutput("info", "text", suite.buffer)
	l.Warnf("route fallback for %s", "req-1")

	out := suite.buffer.String()
	assert.Contains(suite.T(), out, "level=warning")
	assert.Contains(suite.T(), out, "route fallback for req-1")
}

func (suite *LoggerTestSuite) TestWithFields() {
	l := NewLoggerWithOutput("info", "json", suite.buffer)
	l.WithFields(map[string]interface{}{"requestID": "req-9", "attempt": 2}).Error("version conflict")

	var entry map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(suite.buffer.Bytes(), &entry))
	assert.Equal(suite.T(), "req-9", entry["requestID"])
	assert.Equal(suite.T(), float64(2), entry["attempt"])
	assert.Equal(suite.T(), "version conflict", entry["msg"])
}

func (suite *LoggerTestSuite) TestWithFieldsDoesNotLeak() {
	l := NewLoggerWithOutput("info", "json", suite.buffer)
	_ = l.WithFields(map[string]interface{}{"quoteID": "q-1"})
	l.Info("plain")

	assert.NotContains(suite.T(), suite.buffer.String(), "quoteID")
}

func TestLoggerTestSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func TestLoggerConcurrency(t *testing.T) {
	var buf safeBuffer
	l := NewLoggerWithOutput("info", "json", &buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Infof("worker %d", n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(buf.String(), "\n"))
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
