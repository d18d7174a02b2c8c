package middleware

import (
	"fmt"
	"runtime"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
)

const stackBufferSize = 4 << 10

// PanicRecovery 핸들러에서 발생한 panic을 복구하여 Internal 에러로 변환합니다.
// 스택 트레이스는 로그에만 남기고 응답에는 포함하지 않습니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stack := make([]byte, stackBufferSize)
				length := runtime.Stack(stack, false)

				fields := applog.Fields{
					"panic": fmt.Sprintf("%v", r),
					"stack": string(stack[:length]),
				}
				if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
					fields["request_id"] = requestID
				}

				applog.WithComponentAndFields(constants.ComponentMiddlewarePanicRecovery, fields).Error("PANIC RECOVERED")

				err = apperrors.New(apperrors.Internal, fmt.Sprintf("요청 처리 중 panic이 발생했습니다: %v", r))
			}()

			return next(c)
		}
	}
}
