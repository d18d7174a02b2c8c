// Package worker 플랫폼이 전달한 Task를 애플리케이션별 Processor로 실행하는 워커 서비스입니다.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/prometheus/client_golang/prometheus"
)

// component 워커 서비스의 로깅용 컴포넌트 이름
const component = "worker.service"

const (
	// defaultQueueSize 이벤트 채널(Assign, Cancel, Done)의 기본 버퍼 크기입니다.
	defaultQueueSize = 64

	// shutdownTimeout 종료 시 실행 중인 Task 고루틴을 기다리는 최대 시간입니다.
	shutdownTimeout = 30 * time.Second
)

// execution 실행 중인 Task 하나입니다.
type execution struct {
	assignment contract.TaskAssignment
	cancel     context.CancelFunc
	startedAt  time.Time
}

// Service 워커 서비스입니다.
//
// Task 전달(Dispatch), 취소(CancelTasks), 완료 이벤트는 채널을 통해 단일 이벤트 루프로 직렬화되며,
// 동시에 실행되는 Task 수는 platform.worker_count개의 슬롯으로 제한됩니다.
type Service struct {
	appConfig *config.AppConfig

	registry *Registry

	// processors 애플리케이션 이름별로 생성된 Processor입니다. 처음 사용될 때 생성됩니다.
	processors map[string]contract.Processor

	// executions 현재 실행 중(슬롯 대기 포함)인 Task 목록입니다.
	executions map[contract.TaskID]*execution

	assignC chan contract.TaskAssignment
	doneC   chan contract.TaskID
	cancelC chan contract.SessionID

	// doneClosed doneC가 닫힌 뒤에는 Task 고루틴이 완료 이벤트를 보내지 않습니다.
	doneClosed bool
	doneMu     sync.Mutex

	taskStopWG      sync.WaitGroup
	shutdownTimeout time.Duration

	// slots 동시 실행 슬롯입니다. 슬롯 번호는 Task를 실행한 Pod ID에 사용됩니다.
	slots chan int

	podPrefix string

	agent contract.TaskAgent

	metrics *metrics

	running   bool
	runningMu sync.Mutex
}

// NewService 워커 서비스를 생성합니다. 메트릭은 reg에 등록됩니다.
func NewService(appConfig *config.AppConfig, reg prometheus.Registerer) *Service {
	workerCount := appConfig.Platform.WorkerCount
	if workerCount < 1 {
		workerCount = 1
	}

	slots := make(chan int, workerCount)
	for i := range workerCount {
		slots <- i
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "worker"
	}

	return &Service{
		appConfig: appConfig,

		registry: defaultRegistry,

		processors: make(map[string]contract.Processor),
		executions: make(map[contract.TaskID]*execution),

		assignC: make(chan contract.TaskAssignment, defaultQueueSize),
		doneC:   make(chan contract.TaskID, defaultQueueSize),
		cancelC: make(chan contract.SessionID, defaultQueueSize),

		shutdownTimeout: shutdownTimeout,

		slots: slots,

		podPrefix: hostname,

		metrics: newMetrics(reg),

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// SetTaskAgent Task 상태 보고와 데이터 입출력에 사용할 플랫폼 측 TaskAgent를 주입합니다.
// Start() 호출 전에 주입해야 합니다.
func (s *Service) SetTaskAgent(agent contract.TaskAgent) {
	s.agent = agent
}

// Start 워커 서비스를 시작합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: 워커 서비스 초기화 프로세스를 시작합니다")

	if s.agent == nil {
		defer serviceStopWG.Done()
		return ErrTaskAgentNotInitialized
	}

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("워커 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	s.running = true

	go s.runEventLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(component, applog.Fields{
		"worker_count": cap(s.slots),
		"applications": s.registry.Applications(),
	}).Info("서비스 시작 완료: 워커 서비스가 정상적으로 초기화되었습니다")

	return nil
}

func (s *Service) runEventLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

loop:
	for {
		shouldStop := func() bool {
			defer func() {
				if r := recover(); r != nil {
					applog.WithComponentAndFields(component, applog.Fields{
						"panic":            r,
						"executions":       len(s.executions),
						"assign_queue_len": len(s.assignC),
						"done_queue_len":   len(s.doneC),
						"cancel_queue_len": len(s.cancelC),
					}).Error("워커 이벤트 루프 패닉 복구: 다음 이벤트부터 처리를 재개합니다")
				}
			}()

			select {
			case a, ok := <-s.assignC:
				if !ok {
					return true
				}
				s.handleAssign(a)

			case taskID := <-s.doneC:
				s.handleDone(taskID)

			case sessionID := <-s.cancelC:
				s.handleCancel(sessionID)

			case <-serviceStopCtx.Done():
				s.handleStop()
				return true
			}

			return false
		}()

		if shouldStop {
			break loop
		}
	}
}

// handleAssign 전달받은 Task의 Processor를 찾아 실행 고루틴을 시작합니다.
// Processor를 찾을 수 없으면 Task를 실패로 보고합니다.
func (s *Service) handleAssign(a contract.TaskAssignment) {
	fields := applog.Fields{
		"session_id":  a.SessionID,
		"task_id":     a.TaskID,
		"application": a.Options.ApplicationName,
	}

	processor, err := s.processorFor(a.Options.ApplicationName)
	if err != nil {
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Error("Task 실행 불가: Processor를 준비할 수 없습니다")

		s.metrics.tasksTotal.WithLabelValues(a.Options.ApplicationName, statusFailed).Inc()

		s.taskStopWG.Add(1)
		go func() {
			defer s.taskStopWG.Done()
			s.report(a, err)
		}()
		return
	}

	taskCtx, cancel := context.WithCancel(context.Background())

	s.runningMu.Lock()
	s.executions[a.TaskID] = &execution{assignment: a, cancel: cancel, startedAt: time.Now()}
	s.runningMu.Unlock()

	applog.WithComponentAndFields(component, fields).Debug("Task 수신: 실행 슬롯 대기 시작")

	s.taskStopWG.Add(1)
	go func() {
		defer s.taskStopWG.Done()
		defer s.notifyDone(a.TaskID)

		s.execute(taskCtx, a, processor)
	}()
}

func (s *Service) handleDone(taskID contract.TaskID) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	exec, exists := s.executions[taskID]
	if !exists {
		applog.WithComponentAndFields(component, applog.Fields{
			"task_id": taskID,
			"reason":  "not_found",
		}).Warn("Task 완료 처리 무시: 등록되지 않은 Task ID 수신")
		return
	}

	exec.cancel()
	delete(s.executions, taskID)

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id": exec.assignment.SessionID,
		"task_id":    taskID,
		"elapsed":    time.Since(exec.startedAt),
	}).Debug("Task 처리 종료")
}

func (s *Service) handleCancel(sessionID contract.SessionID) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	var cancelled int
	for _, exec := range s.executions {
		if exec.assignment.SessionID == sessionID {
			exec.cancel()
			cancelled++
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id":      sessionID,
		"cancelled_tasks": cancelled,
	}).Info("세션 Task 취소 요청 처리 완료")
}

// handleStop 실행 중인 모든 Task를 취소하고 종료될 때까지 기다린 뒤 Processor를 정리합니다.
//
// 채널을 닫는 순서:
//  1. running = false 및 모든 Task 취소
//  2. 입력 채널(assignC, cancelC) 닫기, 대기 중이던 Task는 취소로 보고
//  3. doneC를 비우면서 Task 고루틴 종료 대기 (최대 shutdownTimeout)
//  4. doneC 닫기, 이후 종료되는 Task 고루틴은 완료 이벤트를 보내지 않음
func (s *Service) handleStop() {
	applog.WithComponent(component).Info("종료 절차 진입: 워커 서비스 중지 시그널을 수신했습니다")

	s.runningMu.Lock()
	s.running = false
	for _, exec := range s.executions {
		exec.cancel()
	}
	s.runningMu.Unlock()

	close(s.assignC)
	close(s.cancelC)

	// 이벤트 루프가 아직 꺼내지 않은 Task는 실행하지 않고 종료 사실만 보고합니다.
	for a := range s.assignC {
		s.report(a, ErrServiceStopping)
	}

	go func() {
		for range s.doneC {
		}
	}()

	done := make(chan struct{})
	go func() {
		s.taskStopWG.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.shutdownTimeout):
		applog.WithComponentAndFields(component, applog.Fields{
			"timeout": s.shutdownTimeout,
		}).Warn("워커 서비스 강제 종료: 고루틴 종료 대기 시간 초과")
	}

	s.doneMu.Lock()
	s.doneClosed = true
	close(s.doneC)
	s.doneMu.Unlock()

	s.runningMu.Lock()
	processors := s.processors
	s.processors = nil
	s.executions = nil
	s.runningMu.Unlock()

	for name, p := range processors {
		if closer, ok := p.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"application": name,
					"error":       err,
				}).Warn("Processor 정리 중 오류가 발생했습니다")
			}
		}
	}

	applog.WithComponent(component).Info("워커 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// notifyDone 이벤트 루프에 Task 종료를 알립니다. 종료 대기 시간을 넘겨 doneC가 이미 닫혔으면 무시합니다.
func (s *Service) notifyDone(taskID contract.TaskID) {
	s.doneMu.Lock()
	defer s.doneMu.Unlock()

	if s.doneClosed {
		return
	}
	s.doneC <- taskID
}

// execute 슬롯을 확보한 뒤 Task를 실행하고 결과를 플랫폼에 보고합니다.
func (s *Service) execute(taskCtx context.Context, a contract.TaskAssignment, processor contract.Processor) {
	var slot int
	select {
	case slot = <-s.slots:
	case <-taskCtx.Done():
		s.metrics.tasksTotal.WithLabelValues(a.Options.ApplicationName, statusCancelled).Inc()
		s.report(a, ErrServiceStopping)
		return
	}
	defer func() { s.slots <- slot }()

	s.metrics.inFlight.Inc()
	defer s.metrics.inFlight.Dec()

	podID := fmt.Sprintf("%s-%d", s.podPrefix, slot)
	if err := s.agent.StartTask(taskCtx, a.TaskID, podID); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"session_id": a.SessionID,
			"task_id":    a.TaskID,
			"error":      err,
		}).Warn("Task 시작 거부: 실행하지 않고 종료합니다")
		return
	}

	handler, err := newTaskHandler(taskCtx, s.agent, a)
	if err != nil {
		s.metrics.tasksTotal.WithLabelValues(a.Options.ApplicationName, statusFailed).Inc()
		s.report(a, err)
		return
	}

	runCtx, cancel := context.WithTimeout(taskCtx, a.Options.MaxDuration)
	defer cancel()

	startedAt := time.Now()
	err = runProcessor(runCtx, processor, handler)
	elapsed := time.Since(startedAt)

	if err != nil && runCtx.Err() != nil {
		err = apperrors.Wrap(err, interruptionType(runCtx.Err()), "Task 실행이 중단되었습니다")
	}

	status := statusSucceeded
	switch {
	case err == nil:
	case apperrors.Is(err, apperrors.Canceled):
		status = statusCancelled
	default:
		status = statusFailed
	}
	s.metrics.tasksTotal.WithLabelValues(a.Options.ApplicationName, status).Inc()
	s.metrics.taskDuration.WithLabelValues(a.Options.ApplicationName).Observe(elapsed.Seconds())

	fields := applog.Fields{
		"session_id":  a.SessionID,
		"task_id":     a.TaskID,
		"application": a.Options.ApplicationName,
		"pod_id":      podID,
		"elapsed":     elapsed,
	}
	if err != nil {
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Warn("Task 실행 실패")
	} else {
		applog.WithComponentAndFields(component, fields).Debug("Task 실행 완료")
	}

	s.report(a, err)
}

// report Task 종료를 플랫폼에 보고합니다. 서비스 종료 중에도 보고가 전달되도록 별도의 컨텍스트를 사용합니다.
func (s *Service) report(a contract.TaskAssignment, cause error) {
	if err := s.agent.CompleteTask(context.Background(), a.TaskID, cause); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"session_id": a.SessionID,
			"task_id":    a.TaskID,
			"error":      err,
		}).Error("Task 완료 보고 실패")
	}
}

// runProcessor Processor를 실행합니다. Processor에서 발생한 패닉은 Task 에러로 변환됩니다.
func runProcessor(ctx context.Context, processor contract.Processor, handler contract.TaskHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newErrProcessorPanic(r)
		}
	}()

	return processor.Execute(ctx, handler)
}

// interruptionType 실행 컨텍스트가 종료된 원인을 에러 유형으로 변환합니다.
// 최대 실행 시간 초과는 재시도 대상(Timeout), 세션 취소나 워커 종료는 재시도하지 않는 취소(Canceled)입니다.
func interruptionType(ctxErr error) apperrors.ErrorType {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return apperrors.Timeout
	}
	return apperrors.Canceled
}

// processorFor 애플리케이션의 Processor를 반환합니다. 처음 요청된 애플리케이션이면 생성합니다.
func (s *Service) processorFor(applicationName string) (contract.Processor, error) {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if p, ok := s.processors[applicationName]; ok {
		return p, nil
	}

	newProcessor, err := s.registry.lookup(applicationName)
	if err != nil {
		return nil, err
	}

	p, err := newProcessor(s.appConfig)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.Internal, "Processor 생성에 실패했습니다: '%s'", applicationName)
	}
	s.processors[applicationName] = p

	return p, nil
}

// Dispatch 실행 준비가 된 Task를 이벤트 루프에 전달합니다.
func (s *Service) Dispatch(ctx context.Context, a contract.TaskAssignment) (err error) {
	if err := a.TaskID.Validate(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = newErrDispatchPanic(r)

			applog.WithComponentAndFields(component, applog.Fields{
				"task_id":          a.TaskID,
				"assign_queue_len": len(s.assignC),
				"panic":            r,
			}).Error("Task 전달 실패: 패닉 발생")
		}
	}()

	s.runningMu.Lock()
	running := s.running
	s.runningMu.Unlock()

	if !running {
		return ErrServiceNotRunning
	}

	select {
	case s.assignC <- a:
		return nil

	case <-ctx.Done():
		return ctx.Err()
	}
}

// CancelTasks 세션에 속한 실행 중인 Task의 취소를 요청합니다.
func (s *Service) CancelTasks(sessionID contract.SessionID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newErrCancelPanic(r)

			applog.WithComponentAndFields(component, applog.Fields{
				"session_id":       sessionID,
				"cancel_queue_len": len(s.cancelC),
				"panic":            r,
			}).Error("Task 취소 실패: 패닉 발생")
		}
	}()

	s.runningMu.Lock()
	running := s.running
	s.runningMu.Unlock()

	if !running {
		return ErrServiceNotRunning
	}

	select {
	case s.cancelC <- sessionID:
		return nil
	default:
		return ErrCancelQueueFull
	}
}

// SessionClosed 세션 종료를 SessionObserver를 구현한 Processor에 알립니다.
func (s *Service) SessionClosed(sessionID contract.SessionID) {
	s.runningMu.Lock()
	observers := make([]contract.SessionObserver, 0, len(s.processors))
	for _, p := range s.processors {
		if o, ok := p.(contract.SessionObserver); ok {
			observers = append(observers, o)
		}
	}
	s.runningMu.Unlock()

	for _, o := range observers {
		o.SessionClosed(sessionID)
	}
}

var _ contract.TaskDispatcher = (*Service)(nil)
