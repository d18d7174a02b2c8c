// Package constants API 서버 전반에서 공유하는 상수를 정의합니다.
package constants

import "time"

// 로깅용 컴포넌트 이름
const (
	ComponentService                 = "api.service"
	ComponentHandler                 = "api.handler"
	ComponentErrorHandler            = "api.error_handler"
	ComponentMiddlewareHTTPLogger    = "api.middleware.http_logger"
	ComponentMiddlewareRateLimit     = "api.middleware.rate_limit"
	ComponentMiddlewarePanicRecovery = "api.middleware.panic_recovery"
)

// HTTP 서버 기본값
const (
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 60 * time.Second
	DefaultWriteTimeout      = 90 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultRequestTimeout 요청 처리 Context의 최대 수명입니다. 이벤트 대기(long polling)보다 길어야 합니다.
	DefaultRequestTimeout = 75 * time.Second

	// DefaultMaxBodySize 결과 데이터 업로드를 고려한 요청 본문 최대 크기
	DefaultMaxBodySize = "64M"

	// ShutdownTimeout Graceful Shutdown 최대 대기 시간
	ShutdownTimeout = 5 * time.Second
)

// 이벤트 대기(long polling) 제한
const (
	DefaultWaitTimeout = 30 * time.Second
	MaxWaitTimeout     = 60 * time.Second
)

// 경로 파라미터
const (
	ParamSession = "session"
	ParamResult  = "result"
)

// 응답 메시지
const (
	MsgSuccess            = "성공"
	ErrMsgInternalServer  = "내부 서버 오류가 발생했습니다"
	ErrMsgNotFound        = "요청한 리소스를 찾을 수 없습니다"
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"
	ErrMsgInvalidBody     = "요청 본문을 해석할 수 없습니다"
)

// 헬스 체크 상태
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"

	DependencyControlPlane = "control_plane"
)
