package testutil

import (
	"os"

	"github.com/ctrlware/go-ctrl-boot/logger"
	"go.uber.org/zap"
)

// WithEnv runs fn with key set to value, restoring the prior state (set or
// unset) afterwards. For the duration, logger.Fatal is swapped for a
// recording MockLogger; it is the one process-terminating seam in
// go-ctrl-boot and a package variable precisely so suites can assert on
// fatal paths (missing SSL domain, unreachable Mongo) without killing the
// test process.
func WithEnv(key, value string, fn func(mock *MockLogger)) {
	prev, had := os.LookupEnv(key)
	os.Setenv(key, value)
	defer func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	}()

	mock := &MockLogger{}
	origFatal := logger.Fatal
	logger.Fatal = mock.Fatal
	defer func() { logger.Fatal = origFatal }()

	fn(mock)
}

// MockLogger records Fatal calls instead of terminating.
type MockLogger struct {
	IsFatalCalled bool
	FatalMsg      string
}

func (m *MockLogger) Fatal(msg string, fields ...zap.Field) {
	m.IsFatalCalled = true
	m.FatalMsg = msg
}
