package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger captures JSON log output for assertions.
type TestLogger struct {
	Logger *zerolog.Logger

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewTestLogger returns a trace-level logger writing into memory. The
// global level is lowered for the duration of the test.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	tl := &TestLogger{}
	l := zerolog.New(tl).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	tl.Logger = &l
	return tl
}

// Write implements io.Writer.
func (tl *TestLogger) Write(p []byte) (int, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.buf.Write(p)
}

// Output returns everything logged so far.
func (tl *TestLogger) Output() string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.buf.String()
}

// Lines returns one element per log event.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.Output())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Count returns the number of log events.
func (tl *TestLogger) Count() int {
	return len(tl.Lines())
}

// Clear discards captured output.
func (tl *TestLogger) Clear() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.buf.Reset()
}

// Contains reports whether substr was logged.
func (tl *TestLogger) Contains(substr string) bool {
	return strings.Contains(tl.Output(), substr)
}

// ContainsAll reports whether every substring was logged.
func (tl *TestLogger) ContainsAll(substrs ...string) bool {
	out := tl.Output()
	for _, s := range substrs {
		if !strings.Contains(out, s) {
			return false
		}
	}
	return true
}

// AssertContains fails t unless substr was logged.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !tl.Contains(substr) {
		t.Errorf("expected log output to contain %q, got:\n%s", substr, tl.Output())
	}
}

// AssertNotContains fails t if substr was logged.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if tl.Contains(substr) {
		t.Errorf("expected log output not to contain %q, got:\n%s", substr, tl.Output())
	}
}

// AssertCount fails t unless exactly n events were logged.
func (tl *TestLogger) AssertCount(t testing.TB, n int) {
	t.Helper()
	if got := tl.Count(); got != n {
		t.Errorf("expected %d log events, got %d:\n%s", n, got, tl.Output())
	}
}
