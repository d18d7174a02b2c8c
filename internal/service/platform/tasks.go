package platform

import (
	"context"
	"slices"
	"strings"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

// SubmitTasks Task를 제출합니다.
//
// 모든 요청을 먼저 검증한 뒤 하나라도 실패하면 아무 Task도 생성하지 않습니다.
// 검증 항목:
//   - 페이로드와 데이터 의존성이 세션에 존재하고 Aborted가 아닐 것
//   - 출력 결과가 세션에 존재하고, 아직 데이터가 없으며, 다른 Task가 생산하지 않을 것
//   - 세션 기본 옵션과 병합한 최종 옵션이 유효할 것
//
// 입력이 모두 Completed인 Task는 즉시 워커로 전달되고, 나머지는 입력이 준비될 때 전달됩니다.
func (s *Service) SubmitTasks(_ context.Context, sessionID contract.SessionID, creations []contract.TaskCreation) ([]contract.TaskInfo, error) {
	s.mu.Lock()

	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if sess.info.Status != contract.SessionStatusRunning {
		s.mu.Unlock()
		return nil, newErrSessionNotRunning(sessionID, sess.info.Status)
	}

	resolved := make([]contract.TaskOptions, len(creations))
	claimed := make(map[contract.ResultID]struct{})
	for i, c := range creations {
		opts, err := s.validateCreationLocked(sess, c, claimed)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		resolved[i] = opts
	}

	now := s.now()
	infos := make([]contract.TaskInfo, 0, len(creations))
	var ready []contract.TaskAssignment
	for i, c := range creations {
		t := &task{
			detail: contract.TaskDetailed{
				ID:               contract.TaskID(s.newID()),
				SessionID:        sessionID,
				PayloadID:        c.PayloadID,
				ExpectedOutputs:  slices.Clone(c.ExpectedOutputs),
				DataDependencies: slices.Clone(c.DataDependencies),
				Options:          resolved[i],
				Status:           contract.TaskStatusSubmitted,
				CreatedAt:        now,
				SubmittedAt:      now,
			},
		}
		s.tasks[t.detail.ID] = t

		for _, out := range t.detail.ExpectedOutputs {
			s.results[out].meta.OwnerTaskID = t.detail.ID
		}

		for _, in := range inputsOf(t.detail) {
			if s.results[in].meta.Status == contract.ResultStatusCompleted {
				continue
			}
			t.pending++
			s.waiters[in] = append(s.waiters[in], t.detail.ID)
		}
		if t.pending == 0 {
			ready = append(ready, s.markDispatchedLocked(t))
		}

		infos = append(infos, contract.TaskInfo{
			TaskID:           t.detail.ID,
			PayloadID:        t.detail.PayloadID,
			ExpectedOutputs:  slices.Clone(t.detail.ExpectedOutputs),
			DataDependencies: slices.Clone(t.detail.DataDependencies),
		})
	}

	s.mu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id":      sessionID,
		"submitted_tasks": len(infos),
		"ready_tasks":     len(ready),
	}).Debug("Task 제출 완료")

	s.dispatch(ready)

	return infos, nil
}

func (s *Service) validateCreationLocked(sess *session, c contract.TaskCreation, claimed map[contract.ResultID]struct{}) (contract.TaskOptions, error) {
	if err := c.Validate(); err != nil {
		return contract.TaskOptions{}, err
	}

	var opts contract.TaskOptions
	if c.Options != nil {
		opts = *c.Options
	}
	opts = opts.Merge(sess.info.DefaultOptions)
	if err := opts.Validate(); err != nil {
		return contract.TaskOptions{}, err
	}

	sessionID := sess.info.ID
	inputs := append([]contract.ResultID{c.PayloadID}, c.DataDependencies...)
	for _, in := range inputs {
		r, err := s.resultLocked(sessionID, in)
		if err != nil {
			return contract.TaskOptions{}, err
		}
		if r.meta.Status == contract.ResultStatusAborted {
			return contract.TaskOptions{}, newErrResultAborted(in, r.abortReason)
		}
	}

	for _, out := range c.ExpectedOutputs {
		r, err := s.resultLocked(sessionID, out)
		if err != nil {
			return contract.TaskOptions{}, err
		}
		if r.meta.Status != contract.ResultStatusCreated {
			return contract.TaskOptions{}, newErrResultNotWritable(out, r.meta.Status)
		}
		if !r.meta.OwnerTaskID.IsEmpty() {
			return contract.TaskOptions{}, newErrResultOwned(out, r.meta.OwnerTaskID)
		}
		if _, dup := claimed[out]; dup || slices.Contains(inputs, out) {
			return contract.TaskOptions{}, apperrors.Newf(apperrors.InvalidInput, "같은 제출 요청에서 중복 사용된 출력 결과입니다: %s", out)
		}
		claimed[out] = struct{}{}
	}

	return opts, nil
}

// ListTasks 세션의 모든 Task를 생성 순서대로 반환합니다. 재시도로 대체된 Task(Retried)도 포함됩니다.
func (s *Service) ListTasks(_ context.Context, sessionID contract.SessionID) ([]contract.TaskDetailed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sessionLocked(sessionID); err != nil {
		return nil, err
	}

	var tasks []contract.TaskDetailed
	for _, t := range s.tasks {
		if t.detail.SessionID == sessionID {
			tasks = append(tasks, cloneDetail(t.detail))
		}
	}

	slices.SortFunc(tasks, func(a, b contract.TaskDetailed) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})

	return tasks, nil
}

func (s *Service) markDispatchedLocked(t *task) contract.TaskAssignment {
	t.detail.Status = contract.TaskStatusDispatched

	return contract.TaskAssignment{
		SessionID:        t.detail.SessionID,
		TaskID:           t.detail.ID,
		PayloadID:        t.detail.PayloadID,
		DataDependencies: slices.Clone(t.detail.DataDependencies),
		ExpectedOutputs:  slices.Clone(t.detail.ExpectedOutputs),
		Options:          t.detail.Options,
	}
}

// failTaskLocked Task를 재시도 없이 최종 실패(Error) 처리하고 출력 결과를 모두 Aborted로 전환합니다.
func (s *Service) failTaskLocked(t *task, cause error) {
	t.detail.Status = contract.TaskStatusError
	t.detail.ErrorMessage = cause.Error()
	t.detail.EndedAt = s.now()
	t.outputs = nil

	reason := "Task 실패: " + string(t.detail.ID)
	for _, out := range t.detail.ExpectedOutputs {
		if r, ok := s.results[out]; ok {
			s.abortResultLocked(r, reason)
		}
	}
}

// dispatch 실행 준비가 된 Task를 워커에 전달합니다. 호출자는 mu를 보유하지 않아야 합니다.
// 워커가 Task를 받지 못하면 해당 Task는 재시도 없이 실패 처리됩니다.
func (s *Service) dispatch(assignments []contract.TaskAssignment) {
	if len(assignments) == 0 {
		return
	}

	s.mu.Lock()
	dispatcher := s.dispatcher
	s.mu.Unlock()

	for _, a := range assignments {
		var err error
		if dispatcher == nil {
			err = ErrTaskDispatcherNotInitialized
		} else {
			err = dispatcher.Dispatch(context.Background(), a)
		}
		if err == nil {
			continue
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"session_id": a.SessionID,
			"task_id":    a.TaskID,
			"error":      err,
		}).Error("Task 전달 실패: 워커가 Task를 받을 수 없습니다")

		s.mu.Lock()
		if t, ok := s.tasks[a.TaskID]; ok && t.detail.Status == contract.TaskStatusDispatched {
			s.failTaskLocked(t, err)
		}
		s.mu.Unlock()
	}
}

func inputsOf(d contract.TaskDetailed) []contract.ResultID {
	inputs := make([]contract.ResultID, 0, 1+len(d.DataDependencies))
	inputs = append(inputs, d.PayloadID)
	for _, dep := range d.DataDependencies {
		if !slices.Contains(inputs, dep) {
			inputs = append(inputs, dep)
		}
	}
	return inputs
}

func cloneDetail(d contract.TaskDetailed) contract.TaskDetailed {
	d.ExpectedOutputs = slices.Clone(d.ExpectedOutputs)
	d.DataDependencies = slices.Clone(d.DataDependencies)
	return d
}
