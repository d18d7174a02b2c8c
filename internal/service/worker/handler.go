package worker

import (
	"context"
	"slices"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
)

// taskHandler Processor에 전달되는 Task 실행 문맥입니다.
// 페이로드와 데이터 의존성은 Processor 실행 전에 모두 읽어 둡니다.
type taskHandler struct {
	assignment contract.TaskAssignment
	agent      contract.TaskAgent

	payload      []byte
	dependencies map[contract.ResultID][]byte
}

func newTaskHandler(ctx context.Context, agent contract.TaskAgent, a contract.TaskAssignment) (*taskHandler, error) {
	payload, err := agent.ReadData(ctx, a.SessionID, a.PayloadID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "페이로드를 읽을 수 없습니다")
	}

	dependencies := make(map[contract.ResultID][]byte, len(a.DataDependencies))
	for _, id := range a.DataDependencies {
		data, err := agent.ReadData(ctx, a.SessionID, id)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "데이터 의존성을 읽을 수 없습니다: %s", id)
		}
		dependencies[id] = data
	}

	return &taskHandler{
		assignment:   a,
		agent:        agent,
		payload:      payload,
		dependencies: dependencies,
	}, nil
}

func (h *taskHandler) SessionID() contract.SessionID { return h.assignment.SessionID }

func (h *taskHandler) TaskID() contract.TaskID { return h.assignment.TaskID }

func (h *taskHandler) Payload() []byte { return h.payload }

func (h *taskHandler) DataDependencies() map[contract.ResultID][]byte { return h.dependencies }

func (h *taskHandler) ExpectedResults() []contract.ResultID {
	return slices.Clone(h.assignment.ExpectedOutputs)
}

func (h *taskHandler) TaskOptions() contract.TaskOptions { return h.assignment.Options }

func (h *taskHandler) SendResult(ctx context.Context, resultID contract.ResultID, data []byte) error {
	if !slices.Contains(h.assignment.ExpectedOutputs, resultID) {
		return apperrors.Newf(apperrors.InvalidInput, "Task의 출력 결과가 아닙니다: %s", resultID)
	}
	return h.agent.WriteResult(ctx, h.assignment.TaskID, resultID, data)
}
