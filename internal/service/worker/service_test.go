package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type completion struct {
	taskID contract.TaskID
	cause  error
}

type fakeAgent struct {
	mu        sync.Mutex
	data      map[contract.ResultID][]byte
	written   map[contract.ResultID][]byte
	pods      map[contract.TaskID]string
	completed chan completion
}

func newFakeAgent() *fakeAgent {
	return &fakeAgent{
		data:      map[contract.ResultID][]byte{"payload": []byte("hello"), "dep": []byte("dep-data")},
		written:   make(map[contract.ResultID][]byte),
		pods:      make(map[contract.TaskID]string),
		completed: make(chan completion, 32),
	}
}

func (a *fakeAgent) StartTask(_ context.Context, taskID contract.TaskID, podID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pods[taskID] = podID
	return nil
}

func (a *fakeAgent) ReadData(_ context.Context, _ contract.SessionID, id contract.ResultID) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	d, ok := a.data[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "no data")
	}
	return d, nil
}

func (a *fakeAgent) WriteResult(_ context.Context, _ contract.TaskID, id contract.ResultID, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.written[id] = data
	return nil
}

func (a *fakeAgent) CompleteTask(_ context.Context, taskID contract.TaskID, cause error) error {
	a.completed <- completion{taskID: taskID, cause: cause}
	return nil
}

func (a *fakeAgent) waitCompletion(t *testing.T) completion {
	t.Helper()

	select {
	case c := <-a.completed:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("Task 완료 보고를 받지 못했습니다")
		return completion{}
	}
}

func startTestService(t *testing.T, workerCount int, registry *Registry) (*Service, *fakeAgent, *prometheus.Registry) {
	t.Helper()

	cfg := config.Default()
	cfg.Platform.WorkerCount = workerCount

	reg := prometheus.NewRegistry()
	s := NewService(&cfg, reg)
	s.registry = registry

	agent := newFakeAgent()
	s.SetTaskAgent(agent)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	return s, agent, reg
}

func assignment(taskID, app string) contract.TaskAssignment {
	return contract.TaskAssignment{
		SessionID:       "session-1",
		TaskID:          contract.TaskID(taskID),
		PayloadID:       "payload",
		ExpectedOutputs: []contract.ResultID{"output"},
		Options: contract.TaskOptions{
			MaxDuration:     time.Minute,
			ApplicationName: app,
		},
	}
}

func echoProcessor(ctx context.Context, h contract.TaskHandler) error {
	return h.SendResult(ctx, h.ExpectedResults()[0], h.Payload())
}

func blockingProcessor(ctx context.Context, _ contract.TaskHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func registryWith(t *testing.T, apps map[string]contract.ProcessorFunc) *Registry {
	t.Helper()

	r := newRegistry()
	for name, fn := range apps {
		r.MustRegister(name, func(*config.AppConfig) (contract.Processor, error) { return fn, nil })
	}
	return r
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
			matched++
		}
	}
	return matched == len(labels)
}

func TestService_Start_WithoutAgent(t *testing.T) {
	cfg := config.Default()
	s := NewService(&cfg, prometheus.NewRegistry())

	wg := &sync.WaitGroup{}
	wg.Add(1)
	err := s.Start(context.Background(), wg)
	assert.ErrorIs(t, err, ErrTaskAgentNotInitialized)
	wg.Wait()
}

func TestService_Dispatch_NotRunning(t *testing.T) {
	cfg := config.Default()
	s := NewService(&cfg, prometheus.NewRegistry())

	err := s.Dispatch(context.Background(), assignment("t-1", "echo"))
	assert.ErrorIs(t, err, ErrServiceNotRunning)

	err = s.CancelTasks("session-1")
	assert.ErrorIs(t, err, ErrServiceNotRunning)

	err = s.Dispatch(context.Background(), contract.TaskAssignment{})
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestService_ExecutesTask(t *testing.T) {
	s, agent, reg := startTestService(t, 2, registryWith(t, map[string]contract.ProcessorFunc{"echo": echoProcessor}))

	a := assignment("t-1", "echo")
	a.DataDependencies = []contract.ResultID{"dep"}
	require.NoError(t, s.Dispatch(context.Background(), a))

	c := agent.waitCompletion(t)
	assert.Equal(t, contract.TaskID("t-1"), c.taskID)
	assert.NoError(t, c.cause)

	agent.mu.Lock()
	assert.Equal(t, []byte("hello"), agent.written["output"])
	assert.True(t, strings.HasPrefix(agent.pods["t-1"], s.podPrefix+"-"))
	agent.mu.Unlock()

	assert.Equal(t, 1.0, counterValue(t, reg, "armonik_worker_tasks_total", map[string]string{"application": "echo", "status": statusSucceeded}))
}

func TestService_TaskFailures(t *testing.T) {
	apps := map[string]contract.ProcessorFunc{
		"panic":    func(context.Context, contract.TaskHandler) error { panic("boom") },
		"fail":     func(context.Context, contract.TaskHandler) error { return errors.New("failed") },
		"blocking": blockingProcessor,
		"undeclared": func(ctx context.Context, h contract.TaskHandler) error {
			return h.SendResult(ctx, "not-mine", nil)
		},
	}

	tests := []struct {
		name     string
		mutate   func(a *contract.TaskAssignment)
		wantType apperrors.ErrorType
	}{
		{"등록되지 않은 애플리케이션", func(a *contract.TaskAssignment) { a.Options.ApplicationName = "unknown" }, apperrors.NotFound},
		{"Processor 패닉", func(a *contract.TaskAssignment) { a.Options.ApplicationName = "panic" }, apperrors.ExecutionFailed},
		{"페이로드 없음", func(a *contract.TaskAssignment) { a.Options.ApplicationName = "fail"; a.PayloadID = "missing" }, apperrors.ExecutionFailed},
		{"최대 실행 시간 초과", func(a *contract.TaskAssignment) {
			a.Options.ApplicationName = "blocking"
			a.Options.MaxDuration = 20 * time.Millisecond
		}, apperrors.Timeout},
		{"선언되지 않은 출력", func(a *contract.TaskAssignment) { a.Options.ApplicationName = "undeclared" }, apperrors.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, agent, _ := startTestService(t, 1, registryWith(t, apps))

			a := assignment("t-1", "")
			tt.mutate(&a)
			require.NoError(t, s.Dispatch(context.Background(), a))

			c := agent.waitCompletion(t)
			require.Error(t, c.cause)
			assert.True(t, apperrors.Is(c.cause, tt.wantType), "err=%v", c.cause)
		})
	}

	t.Run("일반 에러는 그대로 보고", func(t *testing.T) {
		s, agent, reg := startTestService(t, 1, registryWith(t, apps))

		require.NoError(t, s.Dispatch(context.Background(), assignment("t-1", "fail")))

		c := agent.waitCompletion(t)
		assert.EqualError(t, c.cause, "failed")
		assert.Equal(t, 1.0, counterValue(t, reg, "armonik_worker_tasks_total", map[string]string{"application": "fail", "status": statusFailed}))
	})
}

func TestService_CancelTasks(t *testing.T) {
	s, agent, _ := startTestService(t, 2, registryWith(t, map[string]contract.ProcessorFunc{"blocking": blockingProcessor}))

	require.NoError(t, s.Dispatch(context.Background(), assignment("t-1", "blocking")))

	other := assignment("t-2", "blocking")
	other.SessionID = "session-2"
	other.Options.MaxDuration = 100 * time.Millisecond
	require.NoError(t, s.Dispatch(context.Background(), other))

	// 두 Task가 모두 시작될 때까지 대기합니다.
	require.Eventually(t, func() bool {
		agent.mu.Lock()
		defer agent.mu.Unlock()
		return len(agent.pods) == 2
	}, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, s.CancelTasks("session-1"))

	got := map[contract.TaskID]error{}
	for range 2 {
		c := agent.waitCompletion(t)
		got[c.taskID] = c.cause
	}

	assert.True(t, apperrors.Is(got["t-1"], apperrors.Canceled), "취소된 세션의 Task: %v", got["t-1"])
	assert.True(t, apperrors.Is(got["t-2"], apperrors.Timeout), "다른 세션의 Task는 시간 초과로 종료: %v", got["t-2"])
}

func TestService_RespectsWorkerCount(t *testing.T) {
	var current, peak atomic.Int32
	release := make(chan struct{})

	gate := func(ctx context.Context, h contract.TaskHandler) error {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer current.Add(-1)

		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		return h.SendResult(ctx, h.ExpectedResults()[0], nil)
	}

	s, agent, _ := startTestService(t, 2, registryWith(t, map[string]contract.ProcessorFunc{"gate": gate}))

	const taskCount = 5
	for i := range taskCount {
		require.NoError(t, s.Dispatch(context.Background(), assignment("t-"+string(rune('a'+i)), "gate")))
	}

	require.Eventually(t, func() bool { return current.Load() == 2 }, 5*time.Second, 5*time.Millisecond)
	close(release)

	for range taskCount {
		assert.NoError(t, agent.waitCompletion(t).cause)
	}
	assert.Equal(t, int32(2), peak.Load())
}

type observingProcessor struct {
	contract.ProcessorFunc

	mu     sync.Mutex
	closed []contract.SessionID
	shut   bool
}

func (p *observingProcessor) SessionClosed(id contract.SessionID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, id)
}

func (p *observingProcessor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shut = true
	return nil
}

func TestService_SessionObserverAndClose(t *testing.T) {
	p := &observingProcessor{ProcessorFunc: echoProcessor}

	r := newRegistry()
	r.MustRegister("observed", func(*config.AppConfig) (contract.Processor, error) { return p, nil })

	cfg := config.Default()
	s := NewService(&cfg, prometheus.NewRegistry())
	s.registry = r
	agent := newFakeAgent()
	s.SetTaskAgent(agent)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	require.NoError(t, s.Dispatch(context.Background(), assignment("t-1", "observed")))
	assert.NoError(t, agent.waitCompletion(t).cause)

	s.SessionClosed("session-1")

	cancel()
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, []contract.SessionID{"session-1"}, p.closed)
	assert.True(t, p.shut, "종료 시 io.Closer를 구현한 Processor는 정리되어야 합니다")

	err := s.Dispatch(context.Background(), assignment("t-2", "observed"))
	assert.Error(t, err, "종료된 서비스는 Task를 받지 않아야 합니다")
}

func TestService_StopReportsPendingTasks(t *testing.T) {
	r := registryWith(t, map[string]contract.ProcessorFunc{"blocking": blockingProcessor})

	cfg := config.Default()
	cfg.Platform.WorkerCount = 1
	s := NewService(&cfg, prometheus.NewRegistry())
	s.registry = r
	agent := newFakeAgent()
	s.SetTaskAgent(agent)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	require.NoError(t, s.Dispatch(context.Background(), assignment("t-1", "blocking")))
	require.NoError(t, s.Dispatch(context.Background(), assignment("t-2", "blocking")))

	require.Eventually(t, func() bool {
		agent.mu.Lock()
		defer agent.mu.Unlock()
		return len(agent.pods) == 1
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()

	for range 2 {
		c := agent.waitCompletion(t)
		assert.True(t, apperrors.Is(c.cause, apperrors.Canceled), "task=%s err=%v", c.taskID, c.cause)
	}
}

func TestService_StopTimeoutWithUncancellableTask(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := registryWith(t, map[string]contract.ProcessorFunc{
		"busy": func(context.Context, contract.TaskHandler) error {
			// 컨텍스트 취소를 무시하는 연산 (busy-wait 커널과 같음)
			close(started)
			<-release
			return nil
		},
	})

	cfg := config.Default()
	cfg.Platform.WorkerCount = 1
	s := NewService(&cfg, prometheus.NewRegistry())
	s.registry = r
	s.shutdownTimeout = 50 * time.Millisecond
	agent := newFakeAgent()
	s.SetTaskAgent(agent)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	require.NoError(t, s.Dispatch(context.Background(), assignment("t-1", "busy")))
	<-started

	// 종료 대기 시간이 지나 doneC가 닫힌 뒤에 Task가 끝나도 패닉이 발생하지 않아야 합니다.
	cancel()
	wg.Wait()

	s.doneMu.Lock()
	assert.True(t, s.doneClosed)
	s.doneMu.Unlock()

	close(release)
	s.taskStopWG.Wait()

	c := agent.waitCompletion(t)
	assert.Equal(t, contract.TaskID("t-1"), c.taskID)
}
