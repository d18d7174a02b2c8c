package platform

import (
	"context"
	"slices"

	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

// CreateSession 새 세션을 생성합니다.
// defaultOptions의 비어 있는 필드는 설정 파일의 task_options 값으로 채워집니다.
func (s *Service) CreateSession(_ context.Context, defaultOptions contract.TaskOptions, partitionIDs []string) (contract.SessionID, error) {
	opts := defaultOptions.Merge(contract.TaskOptions{
		MaxDuration: s.appConfig.TaskOptions.MaxDuration,
		MaxRetries:  s.appConfig.TaskOptions.MaxRetries,
		Priority:    s.appConfig.TaskOptions.Priority,
		PartitionID: s.appConfig.PartitionID,
	})

	partitions := slices.Clone(partitionIDs)
	if len(partitions) == 0 {
		partitions = []string{opts.PartitionID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := contract.SessionID(s.newID())
	s.sessions[id] = &session{
		info: contract.SessionInfo{
			ID:             id,
			Status:         contract.SessionStatusRunning,
			PartitionIDs:   partitions,
			DefaultOptions: opts,
			CreatedAt:      s.now(),
		},
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id":  id,
		"partitions":  partitions,
		"application": opts.ApplicationName,
	}).Info("세션 생성 완료")

	return id, nil
}

// GetSession 세션 정보를 조회합니다.
func (s *Service) GetSession(_ context.Context, sessionID contract.SessionID) (contract.SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return contract.SessionInfo{}, err
	}

	info := sess.info
	info.PartitionIDs = slices.Clone(info.PartitionIDs)
	return info, nil
}

// CloseSession 세션을 닫습니다. 이미 제출된 Task는 계속 처리되며 새 Task 제출은 거부됩니다.
func (s *Service) CloseSession(_ context.Context, sessionID contract.SessionID) error {
	s.mu.Lock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if sess.info.Status != contract.SessionStatusRunning {
		s.mu.Unlock()
		return newErrSessionNotRunning(sessionID, sess.info.Status)
	}

	sess.info.Status = contract.SessionStatusClosed
	sess.info.EndedAt = s.now()
	dispatcher := s.dispatcher

	s.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id": sessionID,
	}).Info("세션 종료(Close) 완료")

	if dispatcher != nil {
		dispatcher.SessionClosed(sessionID)
	}

	return nil
}

// CancelSession 세션을 취소합니다.
// 종료되지 않은 모든 Task는 Cancelled, 데이터가 없는 모든 결과는 Aborted가 되며 실행 중인 Task에는 취소가 요청됩니다.
// 이미 취소된 세션에 대한 호출은 아무 일도 하지 않습니다.
func (s *Service) CancelSession(_ context.Context, sessionID contract.SessionID) error {
	s.mu.Lock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if sess.info.Status == contract.SessionStatusCancelled {
		s.mu.Unlock()
		return nil
	}

	now := s.now()
	sess.info.Status = contract.SessionStatusCancelled
	sess.info.EndedAt = now

	var cancelledTasks, abortedResults int
	for _, t := range s.tasks {
		if t.detail.SessionID != sessionID || t.detail.Status.IsFinal() {
			continue
		}
		t.detail.Status = contract.TaskStatusCancelled
		t.detail.ErrorMessage = ErrSessionCancelled.Error()
		t.detail.EndedAt = now
		t.outputs = nil
		cancelledTasks++
	}
	for _, r := range s.results {
		if r.meta.SessionID != sessionID || r.meta.Status != contract.ResultStatusCreated {
			continue
		}
		s.abortResultLocked(r, ErrSessionCancelled.Error())
		abortedResults++
	}

	dispatcher := s.dispatcher

	s.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id":      sessionID,
		"cancelled_tasks": cancelledTasks,
		"aborted_results": abortedResults,
	}).Info("세션 취소 완료")

	if dispatcher != nil {
		if err := dispatcher.CancelTasks(sessionID); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"session_id": sessionID,
				"error":      err,
			}).Warn("실행 중인 Task 취소 요청 실패")
		}
		dispatcher.SessionClosed(sessionID)
	}

	return nil
}
