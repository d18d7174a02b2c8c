package errors

import "strconv"

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

const (
	// Unknown 분류할 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그, 예상하지 못한 상태)
	Internal

	// System 시스템 또는 인프라 오류 (디스크, 네트워크, 소켓 등)
	System

	// InvalidInput 잘못된 입력값 (음수 크기, 빈 입력 벡터, 누락된 필드 등)
	InvalidInput

	// Conflict 상태 충돌 (이미 닫힌 세션에 제출, 이미 소유자가 있는 결과 등)
	Conflict

	// NotFound 세션, Task, 결과, 서비스 등을 찾을 수 없음
	NotFound

	// ExecutionFailed Task 또는 워커 처리 실패
	ExecutionFailed

	// ParsingFailed 페이로드 및 응답 디코딩 실패
	ParsingFailed

	// Timeout 작업 시간 초과
	Timeout

	// Unavailable 서비스 일시적 사용 불가 (중지 중, 큐 포화 등)
	Unavailable

	// Canceled 세션 또는 Task가 취소됨
	Canceled
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	InvalidInput:    "InvalidInput",
	Conflict:        "Conflict",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
	Canceled:        "Canceled",
}

// String 에러 타입의 이름을 반환합니다. 정의되지 않은 값은 "ErrorType(N)" 형식입니다.
func (t ErrorType) String() string {
	if t >= 0 && int(t) < len(errorTypeNames) {
		return errorTypeNames[t]
	}
	return "ErrorType(" + strconv.Itoa(int(t)) + ")"
}

// ParseErrorType 이름으로 ErrorType을 찾습니다. 모르는 이름이면 Unknown을 반환합니다.
// HTTP 응답 본문 등 직렬화된 에러 타입을 복원할 때 사용합니다.
func ParseErrorType(name string) ErrorType {
	for i, n := range errorTypeNames {
		if n == name {
			return ErrorType(i)
		}
	}
	return Unknown
}
