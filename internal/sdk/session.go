package sdk

import (
	"context"
	"sync"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"golang.org/x/sync/errgroup"
)

const component = "sdk.session"

// defaultWaitConcurrency WaitResults가 동시에 기다리는 결과 수의 기본값입니다.
const defaultWaitConcurrency = 16

const (
	payloadResultName = "payload"
	outputResultName  = "output"
)

type pendingTask struct {
	taskID   contract.TaskID
	outputID contract.ResultID
	handler  ServiceInvocationHandler
}

// SessionService 세션 하나에 TaskPayload를 제출하고, 결과를 ServiceInvocationHandler로 전달합니다.
type SessionService struct {
	client    contract.Client
	props     Properties
	sessionID contract.SessionID

	waitConcurrency int

	mu      sync.Mutex
	pending []pendingTask

	// handlerMu 콜백 호출을 직렬화합니다.
	handlerMu sync.Mutex
}

// NewSessionService props의 옵션으로 새 세션을 생성합니다.
func NewSessionService(ctx context.Context, client contract.Client, props Properties) (*SessionService, error) {
	sessionID, err := client.CreateSession(ctx, props.Options, props.PartitionIDs)
	if err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id":  sessionID,
		"application": props.Options.ApplicationName,
		"service":     props.Options.ApplicationService,
	}).Info("SDK 세션 생성 완료")

	return &SessionService{
		client:          client,
		props:           props,
		sessionID:       sessionID,
		waitConcurrency: defaultWaitConcurrency,
	}, nil
}

func (s *SessionService) SessionID() contract.SessionID { return s.sessionID }

// SetWaitConcurrency WaitResults가 동시에 기다리는 결과 수를 지정합니다.
func (s *SessionService) SetWaitConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	s.waitConcurrency = n
}

// Submit 페이로드마다 Task 하나를 제출하고, 제출한 순서대로 Task ID를 반환합니다.
// 결과는 WaitResults 호출 시 handler로 전달됩니다.
func (s *SessionService) Submit(ctx context.Context, payloads []TaskPayload, handler ServiceInvocationHandler) ([]contract.TaskID, error) {
	if len(payloads) == 0 {
		return nil, ErrNoPayload
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	items := make([]contract.NamedData, 0, len(payloads))
	names := make([]string, 0, len(payloads))
	for _, p := range payloads {
		data, err := p.Encode()
		if err != nil {
			return nil, err
		}
		items = append(items, contract.NamedData{Name: payloadResultName, Data: data})
		names = append(names, outputResultName)
	}

	payloadResults, err := s.client.CreateResults(ctx, s.sessionID, items)
	if err != nil {
		return nil, err
	}
	outputs, err := s.client.CreateResultsMetadata(ctx, s.sessionID, names)
	if err != nil {
		return nil, err
	}

	creations := make([]contract.TaskCreation, 0, len(payloads))
	for i := range payloads {
		creations = append(creations, contract.TaskCreation{
			PayloadID:       payloadResults[i].ID,
			ExpectedOutputs: []contract.ResultID{outputs[i].ID},
		})
	}

	infos, err := s.client.SubmitTasks(ctx, s.sessionID, creations)
	if err != nil {
		return nil, err
	}

	taskIDs := make([]contract.TaskID, 0, len(infos))

	s.mu.Lock()
	for _, info := range infos {
		s.pending = append(s.pending, pendingTask{
			taskID:   info.TaskID,
			outputID: info.ExpectedOutputs[0],
			handler:  handler,
		})
		taskIDs = append(taskIDs, info.TaskID)
	}
	s.mu.Unlock()

	return taskIDs, nil
}

// PendingCount 아직 결과를 전달하지 않은 Task 수입니다.
func (s *SessionService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// WaitResults 제출한 모든 Task의 결과를 기다려 handler에 전달합니다.
//
// Task 실패는 HandleError로 전달될 뿐 에러로 반환되지 않습니다. ctx가 종료되면 전달하지 못한 Task는
// 다음 WaitResults 호출을 위해 남겨두고 ctx의 에러를 반환합니다.
func (s *SessionService) WaitResults(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(s.waitConcurrency)

	for _, p := range pending {
		g.Go(func() error {
			if err := s.collect(ctx, p); err != nil {
				s.mu.Lock()
				s.pending = append(s.pending, p)
				s.mu.Unlock()
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// collect Task 하나의 결과를 기다려 handler에 전달합니다. ctx가 종료된 경우에만 에러를 반환합니다.
func (s *SessionService) collect(ctx context.Context, p pendingTask) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Classify(err, "결과 대기가 중단되었습니다")
	}

	if err := s.client.WaitForResultsAvailability(ctx, s.sessionID, []contract.ResultID{p.outputID}); err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.deliverError(ctx, p, err)
		return nil
	}

	value, err := s.client.DownloadResultData(ctx, s.sessionID, p.outputID)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.deliverError(ctx, p, err)
		return nil
	}

	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	p.handler.HandleResponse(value, p.taskID)
	return nil
}

func (s *SessionService) deliverError(ctx context.Context, p pendingTask, err error) {
	if !apperrors.Is(err, apperrors.Canceled) {
		if info, getErr := s.client.GetSession(ctx, s.sessionID); getErr == nil && info.Status == contract.SessionStatusCancelled {
			err = apperrors.Wrap(err, apperrors.Canceled, "세션이 취소되어 Task가 중단되었습니다")
		}
	}

	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()

	p.handler.HandleError(err, p.taskID)
}

// CloseSession 세션을 닫아 더 이상 Task를 받지 않도록 합니다.
func (s *SessionService) CloseSession(ctx context.Context) error {
	if err := s.client.CloseSession(ctx, s.sessionID); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id": s.sessionID,
	}).Info("SDK 세션 종료 완료")

	return nil
}

// CancelSession 세션의 모든 Task를 취소합니다. 기다리던 결과는 HandleError(Canceled)로 전달됩니다.
func (s *SessionService) CancelSession(ctx context.Context) error {
	return s.client.CancelSession(ctx, s.sessionID)
}
