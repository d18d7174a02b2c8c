package httputil

import (
	"net/http"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
)

// StatusCode AppError의 종류를 HTTP 상태 코드로 변환합니다.
//
// 클라이언트는 5xx 응답만 재시도하므로, 재시도해도 결과가 같은 에러(실행 실패, 취소)는 4xx로 응답합니다.
func StatusCode(errType apperrors.ErrorType) int {
	switch errType {
	case apperrors.InvalidInput, apperrors.ParsingFailed:
		return http.StatusBadRequest
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Conflict, apperrors.Canceled:
		return http.StatusConflict
	case apperrors.ExecutionFailed:
		return http.StatusUnprocessableEntity
	case apperrors.Timeout:
		return http.StatusGatewayTimeout
	case apperrors.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler Echo 전역 에러 핸들러입니다.
//
// echo.HTTPError와 AppError를 모두 ErrorResponse JSON으로 변환하며,
// 5xx는 Error, 4xx는 Warn 레벨로 기록합니다.
func ErrorHandler(err error, c echo.Context) {
	resp := toErrorResponse(err)

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": resp.ResultCode,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if resp.ResultCode >= http.StatusInternalServerError {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error("HTTP 5xx: 서버 내부 오류가 발생했습니다")
	} else if resp.ResultCode >= http.StatusBadRequest {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn("HTTP 4xx: 클라이언트 요청 오류가 발생했습니다")
	}

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(resp.ResultCode)
		return
	}

	_ = c.JSON(resp.ResultCode, resp)
}

func toErrorResponse(err error) ErrorResponse {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		code := StatusCode(appErr.Type())
		message := appErr.Message()
		if cause := appErr.Unwrap(); cause != nil {
			message += ": " + cause.Error()
		}
		if code == http.StatusInternalServerError {
			message = constants.ErrMsgInternalServer
		}

		return ErrorResponse{
			ResultCode: code,
			ErrorType:  appErr.Type().String(),
			Message:    message,
		}
	}

	resp := ErrorResponse{
		ResultCode: http.StatusInternalServerError,
		Message:    constants.ErrMsgInternalServer,
	}

	if he, ok := err.(*echo.HTTPError); ok {
		resp.ResultCode = he.Code
		switch m := he.Message.(type) {
		case string:
			resp.Message = m
		case ErrorResponse:
			resp.Message = m.Message
		}

		if he.Code == http.StatusNotFound {
			resp.ErrorType = apperrors.NotFound.String()
			if he.Message == http.StatusText(http.StatusNotFound) {
				resp.Message = constants.ErrMsgNotFound
			}
		}
	}

	return resp
}
