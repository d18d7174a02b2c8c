package platform

import (
	"fmt"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
)

var (
	// ErrTaskDispatcherNotInitialized 서비스 시작 시 TaskDispatcher가 주입되지 않았을 때 반환되는 에러입니다.
	ErrTaskDispatcherNotInitialized = apperrors.New(apperrors.Internal, "TaskDispatcher 객체가 초기화되지 않았습니다")

	// ErrMissingOutputs Task가 성공으로 종료되었지만 기록하지 않은 출력 결과가 있을 때의 에러입니다.
	ErrMissingOutputs = apperrors.New(apperrors.ExecutionFailed, "Task가 모든 출력 결과를 기록하지 않고 종료되었습니다")

	// ErrDependencyAborted Task가 기다리던 데이터가 중단되어 실행할 수 없을 때의 에러입니다.
	ErrDependencyAborted = apperrors.New(apperrors.ExecutionFailed, "의존 데이터가 중단(Aborted)되어 Task를 실행할 수 없습니다")

	// ErrSessionCancelled 세션 취소로 인해 Task가 중단되었을 때의 에러입니다.
	ErrSessionCancelled = apperrors.New(apperrors.Canceled, "세션이 취소되었습니다")
)

func newErrSessionNotFound(id contract.SessionID) error {
	return apperrors.New(apperrors.NotFound, fmt.Sprintf("세션을 찾을 수 없습니다: %s", id))
}

func newErrSessionNotRunning(id contract.SessionID, status contract.SessionStatus) error {
	return apperrors.New(apperrors.Conflict, fmt.Sprintf("실행 중인 세션이 아닙니다: %s (상태: %s)", id, status))
}

func newErrResultNotFound(id contract.ResultID) error {
	return apperrors.New(apperrors.NotFound, fmt.Sprintf("결과를 찾을 수 없습니다: %s", id))
}

func newErrResultNotCompleted(id contract.ResultID, status contract.ResultStatus) error {
	return apperrors.New(apperrors.Conflict, fmt.Sprintf("아직 데이터가 준비되지 않은 결과입니다: %s (상태: %s)", id, status))
}

func newErrResultNotWritable(id contract.ResultID, status contract.ResultStatus) error {
	return apperrors.New(apperrors.Conflict, fmt.Sprintf("데이터를 기록할 수 없는 결과입니다: %s (상태: %s)", id, status))
}

func newErrResultOwned(id contract.ResultID, owner contract.TaskID) error {
	return apperrors.New(apperrors.Conflict, fmt.Sprintf("다른 Task가 생산하는 결과입니다: %s (Task: %s)", id, owner))
}

func newErrResultAborted(id contract.ResultID, reason string) error {
	if reason == "" {
		return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("결과가 중단(Aborted)되었습니다: %s", id))
	}
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("결과가 중단(Aborted)되었습니다: %s (%s)", id, reason))
}

func newErrTaskNotFound(id contract.TaskID) error {
	return apperrors.New(apperrors.NotFound, fmt.Sprintf("Task를 찾을 수 없습니다: %s", id))
}

func newErrTaskState(id contract.TaskID, status contract.TaskStatus) error {
	if status == contract.TaskStatusCancelled {
		return apperrors.New(apperrors.Canceled, fmt.Sprintf("취소된 Task입니다: %s", id))
	}
	return apperrors.New(apperrors.Conflict, fmt.Sprintf("현재 상태에서 허용되지 않는 요청입니다: %s (상태: %s)", id, status))
}

func newErrUnexpectedOutput(taskID contract.TaskID, resultID contract.ResultID) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Task(%s)의 출력 결과가 아닙니다: %s", taskID, resultID))
}
