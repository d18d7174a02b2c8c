package contract

import (
	"fmt"
	"time"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

// TaskOptions Task 실행 정책과 Task를 처리할 워커 애플리케이션을 지정합니다.
//
// 세션 생성 시 지정한 옵션이 기본값이 되며, Task별 옵션은 비어 있지 않은 필드만 기본값을 덮어씁니다.
type TaskOptions struct {
	MaxDuration time.Duration `json:"max_duration"`
	MaxRetries  int           `json:"max_retries"`
	Priority    int           `json:"priority"`
	PartitionID string        `json:"partition_id"`

	ApplicationName      string `json:"application_name"`
	ApplicationVersion   string `json:"application_version"`
	ApplicationNamespace string `json:"application_namespace"`
	ApplicationService   string `json:"application_service"`
	EngineType           string `json:"engine_type"`

	Options map[string]string `json:"options,omitempty"`
}

// Merge 비어 있는 필드를 defaults로 채운 새 TaskOptions를 반환합니다.
func (o TaskOptions) Merge(defaults TaskOptions) TaskOptions {
	merged := o

	if merged.MaxDuration == 0 {
		merged.MaxDuration = defaults.MaxDuration
	}
	if merged.MaxRetries == 0 {
		merged.MaxRetries = defaults.MaxRetries
	}
	if merged.Priority == 0 {
		merged.Priority = defaults.Priority
	}
	if merged.PartitionID == "" {
		merged.PartitionID = defaults.PartitionID
	}
	if merged.ApplicationName == "" {
		merged.ApplicationName = defaults.ApplicationName
	}
	if merged.ApplicationVersion == "" {
		merged.ApplicationVersion = defaults.ApplicationVersion
	}
	if merged.ApplicationNamespace == "" {
		merged.ApplicationNamespace = defaults.ApplicationNamespace
	}
	if merged.ApplicationService == "" {
		merged.ApplicationService = defaults.ApplicationService
	}
	if merged.EngineType == "" {
		merged.EngineType = defaults.EngineType
	}

	if len(defaults.Options) > 0 || len(o.Options) > 0 {
		merged.Options = make(map[string]string, len(defaults.Options)+len(o.Options))
		for k, v := range defaults.Options {
			merged.Options[k] = v
		}
		for k, v := range o.Options {
			merged.Options[k] = v
		}
	}

	return merged
}

// Validate 실행 가능한 옵션인지 검사합니다. Merge 이후의 최종 옵션에 대해 호출합니다.
func (o TaskOptions) Validate() error {
	if o.MaxDuration <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("max_duration은 0보다 커야 합니다: %s", o.MaxDuration))
	}
	if o.MaxRetries < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("max_retries는 0 이상이어야 합니다: %d", o.MaxRetries))
	}
	if o.Priority < 1 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("priority는 1 이상이어야 합니다: %d", o.Priority))
	}
	if o.ApplicationName == "" {
		return apperrors.New(apperrors.InvalidInput, "application_name은 필수입니다")
	}
	return nil
}

// TaskCreation Task 제출 요청 하나입니다.
type TaskCreation struct {
	PayloadID        ResultID     `json:"payload_id"`
	ExpectedOutputs  []ResultID   `json:"expected_outputs"`
	DataDependencies []ResultID   `json:"data_dependencies,omitempty"`
	Options          *TaskOptions `json:"options,omitempty"`
}

// Validate 요청 자체의 형식을 검사합니다. 참조하는 결과의 존재 여부는 플랫폼이 검사합니다.
func (c TaskCreation) Validate() error {
	if err := c.PayloadID.Validate(); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "페이로드가 지정되지 않았습니다")
	}
	if len(c.ExpectedOutputs) == 0 {
		return apperrors.New(apperrors.InvalidInput, "Task에는 최소 1개 이상의 출력 결과가 필요합니다")
	}

	seen := make(map[ResultID]struct{}, len(c.ExpectedOutputs))
	for _, id := range c.ExpectedOutputs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("출력 결과(%s)가 중복 지정되었습니다", id))
		}
		seen[id] = struct{}{}
	}

	return nil
}

// TaskStatus Task의 생명주기 상태입니다.
type TaskStatus string

const (
	TaskStatusSubmitted  TaskStatus = "Submitted"  // 의존 데이터 대기 중
	TaskStatusDispatched TaskStatus = "Dispatched" // 워커에 전달됨
	TaskStatusProcessing TaskStatus = "Processing" // 워커가 실행 중
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusError      TaskStatus = "Error"     // 재시도 한도를 넘겨 최종 실패
	TaskStatusRetried    TaskStatus = "Retried"   // 실패 후 새 Task로 재시도됨
	TaskStatusCancelled  TaskStatus = "Cancelled" // 세션 취소
)

// IsFinal 더 이상 상태가 바뀌지 않는 상태인지 여부입니다.
func (s TaskStatus) IsFinal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusError, TaskStatusRetried, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// TaskInfo 제출 직후 반환되는 Task 요약 정보입니다.
type TaskInfo struct {
	TaskID           TaskID     `json:"task_id"`
	PayloadID        ResultID   `json:"payload_id"`
	ExpectedOutputs  []ResultID `json:"expected_outputs"`
	DataDependencies []ResultID `json:"data_dependencies,omitempty"`
}

// TaskDetailed 조회용 Task 상세 정보입니다. 시각 필드는 해당 단계에 도달하지 않았으면 zero value입니다.
type TaskDetailed struct {
	ID               TaskID      `json:"id"`
	SessionID        SessionID   `json:"session_id"`
	PayloadID        ResultID    `json:"payload_id"`
	ExpectedOutputs  []ResultID  `json:"expected_outputs"`
	DataDependencies []ResultID  `json:"data_dependencies,omitempty"`
	Options          TaskOptions `json:"options"`
	Status           TaskStatus  `json:"status"`
	RetryOf          TaskID      `json:"retry_of,omitempty"`
	Attempt          int         `json:"attempt"`
	OwnerPodID       string      `json:"owner_pod_id,omitempty"`
	ErrorMessage     string      `json:"error_message,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	SubmittedAt time.Time `json:"submitted_at"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}
