package middleware

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/darkkaiser/armonik-samples/internal/service/api/httputil"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// maxVisitors 추적할 클라이언트 IP의 최대 수. 가득 차면 가장 오래 요청이 없던 IP를 제거합니다.
const maxVisitors = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorLimiter 클라이언트 IP마다 Token Bucket을 하나씩 둡니다.
type visitorLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	limit rate.Limit
	burst int

	now func() time.Time
}

func newVisitorLimiter(requestsPerSecond float64, burst int) *visitorLimiter {
	return &visitorLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// reserve ip의 토큰 하나를 사용합니다. 토큰이 없으면 다음 토큰까지의 대기 시간을 함께 반환합니다.
func (l *visitorLimiter) reserve(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	v, ok := l.visitors[ip]
	if !ok {
		if len(l.visitors) >= maxVisitors {
			l.evictOldest()
		}
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		// 예약을 취소해야 거절된 요청이 토큰을 소모하지 않음
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *visitorLimiter) evictOldest() {
	var oldestIP string
	var oldest time.Time
	for ip, v := range l.visitors {
		if oldestIP == "" || v.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, v.lastSeen
		}
	}
	delete(l.visitors, oldestIP)
}

// RateLimit 클라이언트 IP별 요청 수를 제한하는 미들웨어입니다.
// 제한을 넘으면 다음 토큰까지의 시간(초, 올림)을 Retry-After로 알려주고 429를 응답합니다.
//
// requestsPerSecond 또는 burst가 양수가 아니면 panic이 발생합니다.
func RateLimit(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic(fmt.Sprintf("RateLimit: requestsPerSecond는 양수여야 합니다 (현재값: %v)", requestsPerSecond))
	}
	if burst <= 0 {
		panic(fmt.Sprintf("RateLimit: burst는 양수여야 합니다 (현재값: %d)", burst))
	}

	limiter := newVisitorLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, wait := limiter.reserve(ip)
			if allowed {
				return next(c)
			}

			retryAfter := retryAfterSeconds(wait)

			applog.WithComponentAndFields(constants.ComponentMiddlewareRateLimit, applog.Fields{
				"remote_ip":   ip,
				"method":      c.Request().Method,
				"path":        c.Request().URL.Path,
				"retry_after": retryAfter,
			}).Warn("요청 차단: IP별 요청 한도를 초과했습니다")

			c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(retryAfter))

			return httputil.NewTooManyRequestsError(constants.ErrMsgTooManyRequests)
		}
	}
}

// retryAfterSeconds 대기 시간을 초 단위로 올림합니다. 최소 1초입니다.
func retryAfterSeconds(wait time.Duration) int {
	seconds := int((wait + time.Second - 1) / time.Second)
	return max(seconds, 1)
}
