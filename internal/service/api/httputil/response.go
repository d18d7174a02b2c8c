// Package httputil API 응답 형식과 에러 응답 변환을 제공합니다.
package httputil

import (
	"net/http"

	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/labstack/echo/v4"
)

// ErrorResponse 모든 에러 응답의 본문입니다.
// ErrorType은 클라이언트가 apperrors.ErrorType을 복원하는 데 사용합니다.
type ErrorResponse struct {
	ResultCode int    `json:"result_code"`
	ErrorType  string `json:"error_type,omitempty"`
	Message    string `json:"message"`
}

// SuccessResponse 반환할 데이터가 없는 요청의 성공 응답입니다.
type SuccessResponse struct {
	ResultCode int    `json:"result_code"`
	Message    string `json:"message"`
}

// NewBadRequestError 400 Bad Request 에러를 생성합니다.
func NewBadRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError 404 Not Found 에러를 생성합니다.
func NewNotFoundError(message string) error {
	return newHTTPError(http.StatusNotFound, message)
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다.
func NewTooManyRequestsError(message string) error {
	return newHTTPError(http.StatusTooManyRequests, message)
}

func newHTTPError(code int, message string) error {
	return echo.NewHTTPError(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// Success 표준 성공 응답(200 OK)을 반환합니다.
func Success(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		ResultCode: 0,
		Message:    constants.MsgSuccess,
	})
}
