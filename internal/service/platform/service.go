// Package platform 세션, 결과, Task, 이벤트로 구성된 컨트롤 플레인을 프로세스 내부 메모리에서 에뮬레이션합니다.
//
// 클라이언트 측에는 contract.Client를, 워커 측에는 contract.TaskAgent를 제공하며
// 실행 준비가 된 Task는 주입된 contract.TaskDispatcher로 전달합니다.
package platform

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/pkg/cronx"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// component 로컬 플랫폼 서비스의 로깅용 컴포넌트 이름
const component = "platform.service"

type session struct {
	info contract.SessionInfo
}

type result struct {
	meta contract.Result
	data []byte

	// done Completed 또는 Aborted가 되는 순간 닫힙니다.
	done chan struct{}

	// abortReason Aborted 상태가 된 원인입니다.
	abortReason string
}

type task struct {
	detail contract.TaskDetailed

	// pending 아직 Completed가 되지 않은 입력(페이로드 + 데이터 의존성) 수
	pending int

	// outputs 실행 중 기록된 출력 데이터입니다. Task가 성공으로 종료될 때 결과로 확정됩니다.
	outputs map[contract.ResultID][]byte
}

// Service 로컬 플랫폼 서비스입니다.
//
// 모든 상태는 단일 뮤텍스(mu)로 보호되며, TaskDispatcher 호출은 항상 뮤텍스를 해제한 뒤에 이루어집니다.
type Service struct {
	appConfig *config.AppConfig

	mu       sync.Mutex
	sessions map[contract.SessionID]*session
	results  map[contract.ResultID]*result
	tasks    map[contract.TaskID]*task

	// waiters 결과 ID별로 해당 결과가 준비되기를 기다리는 Task 목록입니다.
	waiters map[contract.ResultID][]contract.TaskID

	dispatcher contract.TaskDispatcher

	newID func() string
	now   func() time.Time

	running   bool
	runningMu sync.Mutex
}

// NewService 로컬 플랫폼 서비스를 생성합니다.
func NewService(appConfig *config.AppConfig) *Service {
	return &Service{
		appConfig: appConfig,

		sessions: make(map[contract.SessionID]*session),
		results:  make(map[contract.ResultID]*result),
		tasks:    make(map[contract.TaskID]*task),
		waiters:  make(map[contract.ResultID][]contract.TaskID),

		newID: uuid.NewString,
		now:   time.Now,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// SetTaskDispatcher 실행 준비가 된 Task를 전달받을 워커를 주입합니다.
// 워커가 플랫폼을 TaskAgent로 참조하므로 생성자가 아닌 Setter로 주입합니다.
func (s *Service) SetTaskDispatcher(dispatcher contract.TaskDispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatcher = dispatcher
}

// Start 종료된 세션을 정리하는 GC 스케줄러를 시작합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: 로컬 플랫폼 서비스 초기화 프로세스를 시작합니다")

	s.mu.Lock()
	dispatcher := s.dispatcher
	s.mu.Unlock()

	if dispatcher == nil {
		defer serviceStopWG.Done()
		return ErrTaskDispatcherNotInitialized
	}

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("로컬 플랫폼 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	c := cronx.New()
	if _, err := c.AddFunc(s.appConfig.Platform.GCSchedule, func() { s.collectGarbage() }); err != nil {
		defer serviceStopWG.Done()
		return err
	}

	s.running = true

	go s.runGarbageCollector(serviceStopCtx, serviceStopWG, c)

	applog.WithComponentAndFields(component, applog.Fields{
		"gc_schedule":       s.appConfig.Platform.GCSchedule,
		"session_retention": s.appConfig.Platform.SessionRetention,
	}).Info("서비스 시작 완료: 로컬 플랫폼 서비스가 정상적으로 초기화되었습니다")

	return nil
}

func (s *Service) runGarbageCollector(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup, c *cron.Cron) {
	defer serviceStopWG.Done()

	c.Start()

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Info("종료 절차 진입: 로컬 플랫폼 서비스 중지 시그널을 수신했습니다")

	// 실행 중인 GC 작업이 끝날 때까지 대기합니다.
	<-c.Stop().Done()

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("로컬 플랫폼 서비스 종료 완료")
}

// collectGarbage 보존 기간이 지난 종료 세션과 그 세션의 결과, Task를 제거합니다.
func (s *Service) collectGarbage() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	retention := s.appConfig.Platform.SessionRetention

	var removed int
	for id, sess := range s.sessions {
		if sess.info.Status == contract.SessionStatusRunning || now.Sub(sess.info.EndedAt) < retention {
			continue
		}
		if s.hasActiveTaskLocked(id) {
			continue
		}

		for rid, r := range s.results {
			if r.meta.SessionID == id {
				delete(s.results, rid)
				delete(s.waiters, rid)
			}
		}
		for tid, t := range s.tasks {
			if t.detail.SessionID == id {
				delete(s.tasks, tid)
			}
		}
		delete(s.sessions, id)

		removed++
	}

	if removed > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"removed_sessions":   removed,
			"remaining_sessions": len(s.sessions),
		}).Info("종료된 세션 정리 완료")
	}

	return removed
}

func (s *Service) hasActiveTaskLocked(id contract.SessionID) bool {
	for _, t := range s.tasks {
		if t.detail.SessionID == id && !t.detail.Status.IsFinal() {
			return true
		}
	}
	return false
}

// sessionLocked 세션을 조회합니다. 호출자는 mu를 보유해야 합니다.
func (s *Service) sessionLocked(id contract.SessionID) (*session, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	sess, ok := s.sessions[id]
	if !ok {
		return nil, newErrSessionNotFound(id)
	}
	return sess, nil
}

// resultLocked 세션에 속한 결과를 조회합니다. 다른 세션의 결과는 존재하지 않는 것으로 취급합니다.
func (s *Service) resultLocked(sessionID contract.SessionID, id contract.ResultID) (*result, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r, ok := s.results[id]
	if !ok || r.meta.SessionID != sessionID {
		return nil, newErrResultNotFound(id)
	}
	return r, nil
}

var (
	_ contract.Client    = (*Service)(nil)
	_ contract.TaskAgent = (*Service)(nil)
)
