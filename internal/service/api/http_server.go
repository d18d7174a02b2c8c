package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/darkkaiser/armonik-samples/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/armonik-samples/internal/service/api/middleware"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig NewHTTPServer 설정입니다.
type HTTPServerConfig struct {
	Debug bool

	AllowOrigins []string

	// RateLimitEnabled가 false이면 RequestsPerSecond, Burst는 무시됩니다.
	RateLimitEnabled  bool
	RequestsPerSecond float64
	Burst             int

	// RequestTimeout 요청 Context의 최대 수명. 0이면 DefaultRequestTimeout
	RequestTimeout time.Duration
}

// NewHTTPServer 미들웨어 체인이 구성된 Echo 인스턴스를 생성합니다.
//
// 미들웨어 순서:
//  1. PanicRecovery
//  2. RequestID
//  3. Server 헤더 제거
//  4. HTTPLogger
//  5. RateLimit (설정 시)
//  6. BodyLimit
//  7. ContextTimeout
//  8. CORS
//  9. Secure
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = constants.DefaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	if cfg.RateLimitEnabled {
		e.Use(appmiddleware.RateLimit(cfg.RequestsPerSecond, cfg.Burst))
	}
	e.Use(middleware.BodyLimit(constants.DefaultMaxBodySize))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost},
	}))
	e.Use(middleware.Secure())

	return e
}
