package log

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// safeBuffer Fire가 RLock 하에서 동시에 호출될 수 있으므로 Writer도 동시성에 안전해야 합니다.
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

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func newTestHook() (*hook, *safeBuffer, *safeBuffer, *safeBuffer, *safeBuffer) {
	main, critical, verbose, console := &safeBuffer{}, &safeBuffer{}, &safeBuffer{}, &safeBuffer{}
	return &hook{
		mainWriter:     main,
		criticalWriter: critical,
		verboseWriter:  verbose,
		consoleWriter:  console,
		formatter:      &logrus.TextFormatter{DisableTimestamp: true},
	}, main, critical, verbose, console
}

func newEntry(level Level, msg string) *Entry {
	e := logrus.NewEntry(logrus.New())
	e.Level = level
	e.Message = msg
	return e
}

func TestHook_Fire_Routing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		level        Level
		wantMain     bool
		wantCritical bool
		wantVerbose  bool
	}{
		{"Error는 main과 critical에 기록", ErrorLevel, true, true, false},
		{"Warn은 main에만 기록", WarnLevel, true, false, false},
		{"Info는 main에만 기록", InfoLevel, true, false, false},
		{"Debug는 verbose에만 기록", DebugLevel, false, false, true},
		{"Trace는 verbose에만 기록", TraceLevel, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, main, critical, verbose, console := newTestHook()
			require.NoError(t, h.Fire(newEntry(tt.level, "task-42")))

			assert.Equal(t, tt.wantMain, main.String() != "")
			assert.Equal(t, tt.wantCritical, critical.String() != "")
			assert.Equal(t, tt.wantVerbose, verbose.String() != "")
			assert.Contains(t, console.String(), "task-42", "콘솔은 레벨과 무관하게 모두 출력되어야 합니다")
		})
	}
}

func TestHook_Fire_ContinuesAfterWriterFailure(t *testing.T) {
	t.Parallel()

	h, main, _, _, _ := newTestHook()
	h.criticalWriter = failWriter{}

	err := h.Fire(newEntry(ErrorLevel, "boom"))

	assert.EqualError(t, err, "disk full")
	assert.Contains(t, main.String(), "boom", "critical 실패와 무관하게 main에는 기록되어야 합니다")
}

func TestHook_Close(t *testing.T) {
	t.Parallel()

	h, main, _, _, _ := newTestHook()
	require.NoError(t, h.Close())
	require.NoError(t, h.Fire(newEntry(InfoLevel, "ignored")))

	assert.Empty(t, main.String())
	assert.Equal(t, AllLevels, h.Levels())
}

func TestHook_ConcurrentFireAndClose(t *testing.T) {
	t.Parallel()

	h, _, _, _, _ := newTestHook()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Fire(newEntry(InfoLevel, "concurrent"))
		}()
	}
	_ = h.Close()
	wg.Wait()
}
