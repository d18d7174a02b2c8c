package contract

import (
	"strings"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

// SessionID Task 제출 단위인 세션의 식별자입니다.
type SessionID string

func (id SessionID) IsEmpty() bool { return len(id) == 0 }

func (id SessionID) String() string { return string(id) }

func (id SessionID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return apperrors.New(apperrors.InvalidInput, "SessionID는 필수입니다")
	}
	return nil
}

// TaskID 플랫폼에 제출된 Task 하나의 식별자입니다. 재시도된 Task는 새로운 ID를 받습니다.
type TaskID string

func (id TaskID) IsEmpty() bool { return len(id) == 0 }

func (id TaskID) String() string { return string(id) }

func (id TaskID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return apperrors.New(apperrors.InvalidInput, "TaskID는 필수입니다")
	}
	return nil
}

// ResultID 페이로드, 데이터 의존성, Task 출력 등 플랫폼에 저장되는 데이터 하나의 식별자입니다.
type ResultID string

func (id ResultID) IsEmpty() bool { return len(id) == 0 }

func (id ResultID) String() string { return string(id) }

func (id ResultID) Validate() error {
	if strings.TrimSpace(string(id)) == "" {
		return apperrors.New(apperrors.InvalidInput, "ResultID는 필수입니다")
	}
	return nil
}
