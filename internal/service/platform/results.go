package platform

import (
	"context"
	"slices"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

// CreateResultsMetadata 데이터가 없는 결과를 names 순서대로 생성합니다.
func (s *Service) CreateResultsMetadata(_ context.Context, sessionID contract.SessionID, names []string) ([]contract.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRunningLocked(sessionID); err != nil {
		return nil, err
	}

	created := make([]contract.Result, 0, len(names))
	for _, name := range names {
		r := s.newResultLocked(sessionID, name)
		created = append(created, r.meta)
	}

	return created, nil
}

// CreateResults 데이터와 함께 결과를 생성합니다. 생성된 결과는 즉시 Completed 상태입니다.
func (s *Service) CreateResults(_ context.Context, sessionID contract.SessionID, items []contract.NamedData) ([]contract.Result, error) {
	s.mu.Lock()

	if err := s.requireRunningLocked(sessionID); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	created := make([]contract.Result, 0, len(items))
	var ready []contract.TaskAssignment
	for _, item := range items {
		r := s.newResultLocked(sessionID, item.Name)
		ready = append(ready, s.completeResultLocked(r, slices.Clone(item.Data))...)
		created = append(created, r.meta)
	}

	s.mu.Unlock()

	s.dispatch(ready)

	return created, nil
}

// UploadResultData 클라이언트가 생성한 결과(Task 출력이 아닌 결과)에 데이터를 기록합니다.
// 이 결과를 기다리던 Task가 있으면 실행 준비가 되는 즉시 워커로 전달됩니다.
func (s *Service) UploadResultData(_ context.Context, sessionID contract.SessionID, resultID contract.ResultID, data []byte) error {
	s.mu.Lock()

	if err := s.requireRunningLocked(sessionID); err != nil {
		s.mu.Unlock()
		return err
	}

	r, err := s.resultLocked(sessionID, resultID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if r.meta.Status != contract.ResultStatusCreated {
		s.mu.Unlock()
		return newErrResultNotWritable(resultID, r.meta.Status)
	}
	if !r.meta.OwnerTaskID.IsEmpty() {
		s.mu.Unlock()
		return newErrResultOwned(resultID, r.meta.OwnerTaskID)
	}

	ready := s.completeResultLocked(r, slices.Clone(data))

	s.mu.Unlock()

	s.dispatch(ready)

	return nil
}

// DownloadResultData Completed 상태인 결과의 데이터를 반환합니다.
func (s *Service) DownloadResultData(_ context.Context, sessionID contract.SessionID, resultID contract.ResultID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessionLocked(sessionID); err != nil {
		return nil, err
	}

	r, err := s.resultLocked(sessionID, resultID)
	if err != nil {
		return nil, err
	}
	if r.meta.Status != contract.ResultStatusCompleted {
		return nil, newErrResultNotCompleted(resultID, r.meta.Status)
	}

	return slices.Clone(r.data), nil
}

// GetResult 결과 메타데이터를 조회합니다.
func (s *Service) GetResult(_ context.Context, sessionID contract.SessionID, resultID contract.ResultID) (contract.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessionLocked(sessionID); err != nil {
		return contract.Result{}, err
	}

	r, err := s.resultLocked(sessionID, resultID)
	if err != nil {
		return contract.Result{}, err
	}
	return r.meta, nil
}

func (s *Service) requireRunningLocked(sessionID contract.SessionID) error {
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	if sess.info.Status != contract.SessionStatusRunning {
		return newErrSessionNotRunning(sessionID, sess.info.Status)
	}
	return nil
}

func (s *Service) newResultLocked(sessionID contract.SessionID, name string) *result {
	id := contract.ResultID(s.newID())
	r := &result{
		meta: contract.Result{
			ID:        id,
			SessionID: sessionID,
			Name:      name,
			Status:    contract.ResultStatusCreated,
			CreatedAt: s.now(),
		},
		done: make(chan struct{}),
	}
	s.results[id] = r

	return r
}

// completeResultLocked 결과를 Completed로 전환하고, 이 결과를 마지막으로 기다리던 Task들을 실행 준비 상태로 만들어 반환합니다.
func (s *Service) completeResultLocked(r *result, data []byte) []contract.TaskAssignment {
	r.data = data
	r.meta.Status = contract.ResultStatusCompleted
	r.meta.Size = len(data)
	r.meta.CompletedAt = s.now()
	close(r.done)

	var ready []contract.TaskAssignment
	for _, taskID := range s.waiters[r.meta.ID] {
		t, ok := s.tasks[taskID]
		if !ok || t.detail.Status != contract.TaskStatusSubmitted {
			continue
		}

		t.pending--
		if t.pending == 0 {
			ready = append(ready, s.markDispatchedLocked(t))
		}
	}
	delete(s.waiters, r.meta.ID)

	return ready
}

// abortResultLocked 결과를 Aborted로 전환합니다. 이 결과를 기다리던 Task는 실패 처리되고, 그 출력도 연쇄적으로 Aborted가 됩니다.
func (s *Service) abortResultLocked(r *result, reason string) {
	if r.meta.Status != contract.ResultStatusCreated {
		return
	}

	r.meta.Status = contract.ResultStatusAborted
	r.abortReason = reason
	close(r.done)

	waiting := s.waiters[r.meta.ID]
	delete(s.waiters, r.meta.ID)

	for _, taskID := range waiting {
		t, ok := s.tasks[taskID]
		if !ok || t.detail.Status != contract.TaskStatusSubmitted {
			continue
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"session_id": t.detail.SessionID,
			"task_id":    t.detail.ID,
			"result_id":  r.meta.ID,
		}).Warn("의존 데이터 중단으로 Task 실행 불가")

		s.failTaskLocked(t, apperrors.Wrap(ErrDependencyAborted, apperrors.ExecutionFailed, reason))
	}
}
