package client

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// ErrInvalidEndpoint 컨트롤 플레인 주소가 올바른 http(s) URL이 아닙니다.
var ErrInvalidEndpoint = apperrors.New(apperrors.InvalidInput, "컨트롤 플레인 주소가 올바르지 않습니다")

const maxErrorBodySnippet = 256

// decodeError 에러 응답 본문을 AppError로 복원합니다.
//
// 본문의 error_type을 우선 사용하고, 없으면 상태 코드로 종류를 추정합니다.
func decodeError(statusCode int, body []byte) error {
	errType := apperrors.Unknown
	message := ""

	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		errType = apperrors.ParseErrorType(parsed.Get("error_type").String())
		message = parsed.Get("message").String()
	}

	if errType == apperrors.Unknown {
		errType = errorTypeOf(statusCode)
	}

	if message == "" {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBodySnippet {
			snippet = snippet[:maxErrorBodySnippet] + "..."
		}
		message = fmt.Sprintf("HTTP %d (%s) %s", statusCode, http.StatusText(statusCode), snippet)
	}

	return apperrors.New(errType, message)
}

func errorTypeOf(statusCode int) apperrors.ErrorType {
	switch statusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return apperrors.InvalidInput
	case http.StatusNotFound:
		return apperrors.NotFound
	case http.StatusConflict:
		return apperrors.Conflict
	case http.StatusUnprocessableEntity:
		return apperrors.ExecutionFailed
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return apperrors.Timeout
	case http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusBadGateway:
		return apperrors.Unavailable
	default:
		return apperrors.Internal
	}
}

// isRetryableStatus 5xx와 429만 재시도합니다.
func isRetryableStatus(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests
}
