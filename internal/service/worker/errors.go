package worker

import (
	"fmt"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

var (
	// ErrTaskAgentNotInitialized 서비스 시작 시 TaskAgent가 주입되지 않았을 때 반환되는 에러입니다.
	ErrTaskAgentNotInitialized = apperrors.New(apperrors.Internal, "TaskAgent 객체가 초기화되지 않았습니다")

	// ErrServiceNotRunning 워커 서비스가 실행 중이 아닐 때 반환되는 에러입니다.
	ErrServiceNotRunning = apperrors.New(apperrors.Unavailable, "워커 서비스가 현재 실행 중이지 않아 요청을 수행할 수 없습니다")

	// ErrCancelQueueFull 취소 요청 대기열이 가득 차 있을 때 반환되는 에러입니다.
	ErrCancelQueueFull = apperrors.New(apperrors.Unavailable, "Task 취소 대기열이 포화 상태에 도달하여 일시적으로 요청을 접수할 수 없습니다")

	// ErrServiceStopping 워커 종료로 인해 실행되지 못한 Task에 보고되는 에러입니다.
	ErrServiceStopping = apperrors.New(apperrors.Canceled, "워커 서비스가 종료 중입니다")
)

func newErrApplicationNotSupported(applicationName string) error {
	return apperrors.New(apperrors.NotFound, fmt.Sprintf("등록되지 않은 워커 애플리케이션입니다: '%s'", applicationName))
}

func newErrDuplicateApplication(applicationName string) error {
	return apperrors.New(apperrors.Conflict, fmt.Sprintf("이미 등록된 워커 애플리케이션입니다: '%s'", applicationName))
}

func newErrProcessorPanic(v any) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("Task 처리 중 예기치 않은 패닉이 발생하였습니다 (상세: %v)", v))
}

func newErrDispatchPanic(v any) error {
	return apperrors.New(apperrors.Internal, fmt.Sprintf("Task 전달 처리 중 예기치 않은 내부 오류가 발생하였습니다 (상세: %v)", v))
}

func newErrCancelPanic(v any) error {
	return apperrors.New(apperrors.Internal, fmt.Sprintf("Task 취소 처리 중 예기치 않은 내부 오류가 발생하였습니다 (상세: %v)", v))
}
