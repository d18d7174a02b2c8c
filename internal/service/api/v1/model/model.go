// Package model v1 API의 요청과 응답 본문을 정의합니다.
package model

import "github.com/darkkaiser/armonik-samples/internal/service/contract"

// CreateSessionRequest POST /api/v1/sessions
type CreateSessionRequest struct {
	DefaultOptions contract.TaskOptions `json:"default_options"`
	PartitionIDs   []string             `json:"partition_ids" validate:"dive,required"`
}

// CreateSessionResponse 생성된 세션 ID입니다.
type CreateSessionResponse struct {
	SessionID contract.SessionID `json:"session_id"`
}

// CreateResultsMetadataRequest POST /api/v1/sessions/:session/results
type CreateResultsMetadataRequest struct {
	Names []string `json:"names" validate:"min=1,dive,required"`
}

// CreateResultsRequest POST /api/v1/sessions/:session/results/data
type CreateResultsRequest struct {
	Items []contract.NamedData `json:"items" validate:"min=1,dive"`
}

// ResultsResponse 결과 생성 요청의 응답입니다. 순서는 요청 순서와 같습니다.
type ResultsResponse struct {
	Results []contract.Result `json:"results"`
}

// SubmitTasksRequest POST /api/v1/sessions/:session/tasks
type SubmitTasksRequest struct {
	Tasks []contract.TaskCreation `json:"tasks" validate:"min=1"`
}

// SubmitTasksResponse 제출된 Task 요약입니다.
type SubmitTasksResponse struct {
	Tasks []contract.TaskInfo `json:"tasks"`
}

// ListTasksResponse GET /api/v1/sessions/:session/tasks
type ListTasksResponse struct {
	Tasks []contract.TaskDetailed `json:"tasks"`
}

// WaitRequest POST /api/v1/sessions/:session/events/wait
//
// TimeoutMs 동안 결과가 모두 준비되지 않으면 Completed=false로 응답하며,
// 클라이언트는 다시 요청합니다(long polling). 0이면 서버 기본값을 사용합니다.
type WaitRequest struct {
	ResultIDs []contract.ResultID `json:"result_ids" validate:"min=1,dive,required"`
	TimeoutMs int64               `json:"timeout_ms" validate:"gte=0,lte=60000"`
}

// WaitResponse 이벤트 대기 결과입니다.
type WaitResponse struct {
	Completed bool `json:"completed"`
}
