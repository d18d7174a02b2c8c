package contract

import "context"

// SessionsClient 세션 생명주기를 관리합니다.
type SessionsClient interface {
	// CreateSession defaultOptions를 기본 Task 옵션으로 하는 세션을 생성합니다.
	CreateSession(ctx context.Context, defaultOptions TaskOptions, partitionIDs []string) (SessionID, error)

	GetSession(ctx context.Context, sessionID SessionID) (SessionInfo, error)

	// CancelSession 진행 중인 Task를 모두 취소하고 미완료 결과를 Aborted로 전환합니다.
	CancelSession(ctx context.Context, sessionID SessionID) error

	// CloseSession 새 Task 제출을 막습니다. 이미 제출된 Task는 계속 처리됩니다.
	CloseSession(ctx context.Context, sessionID SessionID) error
}

// ResultsClient 결과 메타데이터와 데이터를 관리합니다.
type ResultsClient interface {
	// CreateResultsMetadata 데이터 없이 결과를 예약합니다. 반환 순서는 names의 순서와 같습니다.
	CreateResultsMetadata(ctx context.Context, sessionID SessionID, names []string) ([]Result, error)

	// CreateResults 데이터와 함께 결과를 생성합니다. 반환 순서는 items의 순서와 같습니다.
	CreateResults(ctx context.Context, sessionID SessionID, items []NamedData) ([]Result, error)

	UploadResultData(ctx context.Context, sessionID SessionID, resultID ResultID, data []byte) error
	DownloadResultData(ctx context.Context, sessionID SessionID, resultID ResultID) ([]byte, error)
	GetResult(ctx context.Context, sessionID SessionID, resultID ResultID) (Result, error)
}

// TasksClient Task를 제출하고 조회합니다.
type TasksClient interface {
	SubmitTasks(ctx context.Context, sessionID SessionID, tasks []TaskCreation) ([]TaskInfo, error)
	ListTasks(ctx context.Context, sessionID SessionID) ([]TaskDetailed, error)
}

// EventsClient 결과 상태 변화를 기다립니다.
type EventsClient interface {
	// WaitForResultsAvailability 모든 결과가 Completed가 될 때까지 대기합니다.
	// 하나라도 Aborted가 되면 즉시 ExecutionFailed 에러를 반환합니다.
	WaitForResultsAvailability(ctx context.Context, sessionID SessionID, resultIDs []ResultID) error
}

// Client 컨트롤 플레인의 전체 API입니다. 로컬 플랫폼과 HTTP 클라이언트가 모두 구현합니다.
type Client interface {
	SessionsClient
	ResultsClient
	TasksClient
	EventsClient
}
