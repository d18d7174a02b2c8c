package contract

import "time"

// ResultStatus 결과 데이터의 상태입니다.
type ResultStatus string

const (
	ResultStatusCreated   ResultStatus = "Created"   // 메타데이터만 있고 데이터는 아직 없음
	ResultStatusCompleted ResultStatus = "Completed" // 데이터가 기록됨
	ResultStatusAborted   ResultStatus = "Aborted"   // 생산할 Task가 실패하거나 세션이 취소됨
)

// Result 결과 메타데이터입니다.
type Result struct {
	ID          ResultID     `json:"id"`
	SessionID   SessionID    `json:"session_id"`
	Name        string       `json:"name"`
	Status      ResultStatus `json:"status"`
	OwnerTaskID TaskID       `json:"owner_task_id,omitempty"`
	Size        int          `json:"size"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// NamedData 이름과 데이터를 함께 지정하여 결과를 생성할 때 사용합니다.
type NamedData struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// SessionStatus 세션의 상태입니다.
type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "Running"
	SessionStatusClosed    SessionStatus = "Closed"    // 새 Task 제출 불가, 진행 중인 Task는 계속 실행
	SessionStatusCancelled SessionStatus = "Cancelled" // 모든 Task 취소, 미완료 결과는 Aborted
)

// SessionInfo 세션 조회 정보입니다.
type SessionInfo struct {
	ID             SessionID     `json:"id"`
	Status         SessionStatus `json:"status"`
	PartitionIDs   []string      `json:"partition_ids"`
	DefaultOptions TaskOptions   `json:"default_options"`
	CreatedAt      time.Time     `json:"created_at"`
	EndedAt        time.Time     `json:"ended_at"`
}
