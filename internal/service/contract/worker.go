package contract

import "context"

// TaskAssignment 플랫폼이 워커에 전달하는 실행 단위입니다.
type TaskAssignment struct {
	SessionID        SessionID
	TaskID           TaskID
	PayloadID        ResultID
	DataDependencies []ResultID
	ExpectedOutputs  []ResultID
	Options          TaskOptions
}

// TaskDispatcher 플랫폼 → 워커 방향의 인터페이스입니다.
type TaskDispatcher interface {
	// Dispatch 실행 준비가 된 Task를 워커에 전달합니다.
	Dispatch(ctx context.Context, assignment TaskAssignment) error

	// CancelTasks 해당 세션에서 실행 중인 모든 Task의 취소를 요청합니다.
	CancelTasks(sessionID SessionID) error

	// SessionClosed 세션이 닫혔거나 취소되었음을 알립니다.
	SessionClosed(sessionID SessionID)
}

// TaskAgent 워커 → 플랫폼 방향의 인터페이스입니다.
type TaskAgent interface {
	// StartTask Task를 Processing 상태로 전환하고 실행 주체(podID)를 기록합니다.
	StartTask(ctx context.Context, taskID TaskID, podID string) error

	// ReadData 페이로드 또는 데이터 의존성의 내용을 읽습니다.
	ReadData(ctx context.Context, sessionID SessionID, resultID ResultID) ([]byte, error)

	// WriteResult Task의 출력 데이터를 기록합니다. Task가 성공으로 끝날 때 결과가 확정됩니다.
	WriteResult(ctx context.Context, taskID TaskID, resultID ResultID, data []byte) error

	// CompleteTask Task를 종료합니다. cause가 nil이 아니면 실패로 처리되어 재시도 정책이 적용됩니다.
	CompleteTask(ctx context.Context, taskID TaskID, cause error) error
}

// TaskHandler Processor가 보는 Task 하나의 실행 문맥입니다.
type TaskHandler interface {
	SessionID() SessionID
	TaskID() TaskID
	Payload() []byte
	DataDependencies() map[ResultID][]byte
	ExpectedResults() []ResultID
	TaskOptions() TaskOptions

	// SendResult 출력 결과 하나의 데이터를 기록합니다. ExpectedResults에 없는 결과는 거부됩니다.
	SendResult(ctx context.Context, resultID ResultID, data []byte) error
}

// Processor 워커 애플리케이션의 Task 처리 로직입니다.
type Processor interface {
	Execute(ctx context.Context, handler TaskHandler) error
}

// ProcessorFunc 함수를 Processor로 사용할 수 있게 합니다.
type ProcessorFunc func(ctx context.Context, handler TaskHandler) error

func (f ProcessorFunc) Execute(ctx context.Context, handler TaskHandler) error {
	return f(ctx, handler)
}

// SessionObserver 세션 종료 통지가 필요한 Processor가 추가로 구현합니다.
type SessionObserver interface {
	SessionClosed(sessionID SessionID)
}
