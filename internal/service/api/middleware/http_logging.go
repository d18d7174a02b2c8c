package middleware

import (
	"strconv"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
)

// HTTPLogger 요청마다 한 줄의 접근 로그를 남기는 미들웨어를 반환합니다.
//
// 에러는 여기서 c.Error로 처리하여 로그에 최종 상태 코드가 기록되도록 합니다.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			latency := time.Since(start)

			path := req.URL.Path
			if path == "" {
				path = "/"
			}

			bytesIn := req.Header.Get(echo.HeaderContentLength)
			if bytesIn == "" {
				bytesIn = "0"
			}

			entry := applog.WithComponentAndFields(constants.ComponentMiddlewareHTTPLogger, applog.Fields{
				"method":        req.Method,
				"path":          path,
				"uri":           req.RequestURI,
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"status":        res.Status,
				"bytes_in":      bytesIn,
				"bytes_out":     strconv.FormatInt(res.Size, 10),
				"latency_human": latency.String(),
				"request_id":    res.Header().Get(echo.HeaderXRequestID),
			})

			// 이벤트 대기와 데이터 전송 요청이 많으므로 성공 요청은 Debug로 기록
			if res.Status >= 400 {
				entry.Info("HTTP 요청")
			} else {
				entry.Debug("HTTP 요청")
			}

			return nil
		}
	}
}
