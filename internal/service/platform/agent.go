package platform

import (
	"context"
	"slices"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

// StartTask 워커가 Task 실행을 시작했음을 기록합니다.
func (s *Service) StartTask(_ context.Context, taskID contract.TaskID, podID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.taskLocked(taskID)
	if err != nil {
		return err
	}
	if t.detail.Status != contract.TaskStatusDispatched {
		return newErrTaskState(taskID, t.detail.Status)
	}

	t.detail.Status = contract.TaskStatusProcessing
	t.detail.StartedAt = s.now()
	t.detail.OwnerPodID = podID
	t.outputs = make(map[contract.ResultID][]byte, len(t.detail.ExpectedOutputs))

	return nil
}

// ReadData 워커가 페이로드나 데이터 의존성을 읽습니다.
func (s *Service) ReadData(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID) ([]byte, error) {
	return s.DownloadResultData(ctx, sessionID, resultID)
}

// WriteResult 실행 중인 Task의 출력 데이터를 기록합니다.
// 같은 결과에 여러 번 기록하면 마지막 데이터가 사용됩니다.
func (s *Service) WriteResult(_ context.Context, taskID contract.TaskID, resultID contract.ResultID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.taskLocked(taskID)
	if err != nil {
		return err
	}
	if t.detail.Status != contract.TaskStatusProcessing {
		return newErrTaskState(taskID, t.detail.Status)
	}
	if !slices.Contains(t.detail.ExpectedOutputs, resultID) {
		return newErrUnexpectedOutput(taskID, resultID)
	}

	t.outputs[resultID] = slices.Clone(data)

	return nil
}

// CompleteTask Task 실행을 종료합니다.
//
//   - cause == nil: 기록된 출력이 모두 결과로 확정됩니다. 누락된 출력이 있으면 실패로 처리합니다.
//   - cause != nil: 재시도 횟수(MaxRetries)가 남아 있으면 새 Task ID로 재시도하고, 원래 Task는 Retried가 됩니다.
//     재시도 횟수를 모두 소진하면 Error가 되며 출력 결과는 Aborted로 전환됩니다.
//
// 이미 종료된 Task(예: 세션 취소로 Cancelled)에 대한 호출은 무시합니다.
func (s *Service) CompleteTask(_ context.Context, taskID contract.TaskID, cause error) error {
	s.mu.Lock()

	t, err := s.taskLocked(taskID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if t.detail.Status.IsFinal() {
		s.mu.Unlock()

		applog.WithComponentAndFields(component, applog.Fields{
			"task_id": taskID,
			"status":  t.detail.Status,
		}).Debug("이미 종료된 Task의 완료 보고를 무시합니다")

		return nil
	}
	if t.detail.Status != contract.TaskStatusProcessing && t.detail.Status != contract.TaskStatusDispatched {
		s.mu.Unlock()
		return newErrTaskState(taskID, t.detail.Status)
	}

	if cause == nil {
		for _, out := range t.detail.ExpectedOutputs {
			if _, ok := t.outputs[out]; !ok {
				cause = apperrors.Wrapf(ErrMissingOutputs, apperrors.ExecutionFailed, "누락된 출력: %s", out)
				break
			}
		}
	}

	var ready []contract.TaskAssignment
	if cause == nil {
		ready = s.succeedTaskLocked(t)
	} else {
		ready = s.retryOrFailTaskLocked(t, cause)
	}

	s.mu.Unlock()

	s.dispatch(ready)

	return nil
}

func (s *Service) succeedTaskLocked(t *task) []contract.TaskAssignment {
	t.detail.Status = contract.TaskStatusCompleted
	t.detail.EndedAt = s.now()

	var ready []contract.TaskAssignment
	for _, out := range t.detail.ExpectedOutputs {
		if r, ok := s.results[out]; ok && r.meta.Status == contract.ResultStatusCreated {
			ready = append(ready, s.completeResultLocked(r, t.outputs[out])...)
		}
	}
	t.outputs = nil

	return ready
}

func (s *Service) retryOrFailTaskLocked(t *task, cause error) []contract.TaskAssignment {
	fields := applog.Fields{
		"session_id":  t.detail.SessionID,
		"task_id":     t.detail.ID,
		"attempt":     t.detail.Attempt,
		"max_retries": t.detail.Options.MaxRetries,
		"error":       cause,
	}

	if apperrors.Is(cause, apperrors.Canceled) {
		applog.WithComponentAndFields(component, fields).Warn("Task 취소: 출력 결과를 중단(Aborted) 처리합니다")

		s.failTaskLocked(t, cause)
		t.detail.Status = contract.TaskStatusCancelled
		return nil
	}

	if t.detail.Attempt >= t.detail.Options.MaxRetries {
		applog.WithComponentAndFields(component, fields).Warn("Task 최종 실패: 출력 결과를 중단(Aborted) 처리합니다")

		s.failTaskLocked(t, cause)
		return nil
	}

	now := s.now()
	t.detail.Status = contract.TaskStatusRetried
	t.detail.ErrorMessage = cause.Error()
	t.detail.EndedAt = now
	t.outputs = nil

	retry := &task{
		detail: contract.TaskDetailed{
			ID:               contract.TaskID(s.newID()),
			SessionID:        t.detail.SessionID,
			PayloadID:        t.detail.PayloadID,
			ExpectedOutputs:  slices.Clone(t.detail.ExpectedOutputs),
			DataDependencies: slices.Clone(t.detail.DataDependencies),
			Options:          t.detail.Options,
			Status:           contract.TaskStatusSubmitted,
			RetryOf:          t.detail.ID,
			Attempt:          t.detail.Attempt + 1,
			CreatedAt:        now,
			SubmittedAt:      now,
		},
	}
	s.tasks[retry.detail.ID] = retry

	for _, out := range retry.detail.ExpectedOutputs {
		if r, ok := s.results[out]; ok {
			r.meta.OwnerTaskID = retry.detail.ID
		}
	}

	fields["retry_task_id"] = retry.detail.ID
	applog.WithComponentAndFields(component, fields).Warn("Task 실패: 새 Task로 재시도합니다")

	return []contract.TaskAssignment{s.markDispatchedLocked(retry)}
}

func (s *Service) taskLocked(id contract.TaskID) (*task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	t, ok := s.tasks[id]
	if !ok {
		return nil, newErrTaskNotFound(id)
	}
	return t, nil
}
