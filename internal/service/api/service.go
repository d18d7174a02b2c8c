// Package api 로컬 플랫폼의 컨트롤 플레인을 HTTP(REST)로 노출합니다.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/pkg/version"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/darkkaiser/armonik-samples/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/armonik-samples/internal/service/api/v1"
	v1handler "github.com/darkkaiser/armonik-samples/internal/service/api/v1/handler"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Service 컨트롤 플레인 API 서버의 생명주기를 관리합니다.
//
// Start에서 리스너를 먼저 열기 때문에 포트 바인딩 실패는 Start의 반환값으로 전달되며,
// 서버는 serviceStopCtx가 취소되면 Graceful Shutdown 됩니다.
type Service struct {
	appConfig *config.AppConfig

	client   contract.Client
	gatherer prometheus.Gatherer

	buildInfo version.Info

	addr net.Addr

	running   bool
	runningMu sync.Mutex
}

// NewService Service를 생성합니다. gatherer가 nil이면 /metrics를 제공하지 않습니다.
func NewService(appConfig *config.AppConfig, client contract.Client, gatherer prometheus.Gatherer, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("api service: AppConfig는 필수입니다")
	}
	if client == nil {
		panic("api service: contract.Client는 필수입니다")
	}

	return &Service{
		appConfig: appConfig,

		client:   client,
		gatherer: gatherer,

		buildInfo: buildInfo,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start 리스너를 열고 HTTP 서버를 별도 고루틴에서 실행합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info("서비스 시작 진입: API 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn("API 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	listener, err := net.Listen("tcp", s.appConfig.Platform.ListenAddress)
	if err != nil {
		defer serviceStopWG.Done()
		return apperrors.Wrapf(err, apperrors.System, "API 서버 주소에 바인딩할 수 없습니다: %s", s.appConfig.Platform.ListenAddress)
	}

	s.addr = listener.Addr()
	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG, listener)

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"address": s.addr.String(),
	}).Info("서비스 시작 완료: API 서비스가 정상적으로 초기화되었습니다")

	return nil
}

// Addr 실제로 바인딩된 주소입니다. 포트 0으로 시작한 경우 할당된 포트를 확인할 때 사용합니다.
func (s *Service) Addr() string {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup, listener net.Listener) {
	defer serviceStopWG.Done()

	e := s.setupServer()
	e.Listener = listener

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer 핸들러와 라우트가 등록된 Echo 인스턴스를 생성합니다.
func (s *Service) setupServer() *echo.Echo {
	systemHandler := system.NewHandler(s.client, s.buildInfo)
	v1Handler := v1handler.NewHandler(s.client)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:             s.appConfig.Debug,
		AllowOrigins:      s.appConfig.Platform.CORS.AllowOrigins,
		RateLimitEnabled:  s.appConfig.Platform.RateLimit.Enabled,
		RequestsPerSecond: s.appConfig.Platform.RateLimit.RequestsPerSecond,
		Burst:             s.appConfig.Platform.RateLimit.Burst,
	})

	RegisterRoutes(e, systemHandler, s.gatherer)
	v1.RegisterRoutes(e, v1Handler)

	return e
}

func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	// e.Listener가 설정되어 있으므로 주소 인자는 사용되지 않습니다.
	err := e.Start("")

	if err == nil || errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info("HTTP 서버가 종료되었습니다")
		return
	}

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"address": s.appConfig.Platform.ListenAddress,
		"error":   err,
	}).Error("HTTP 서버 실행 중 치명적인 오류가 발생했습니다")
}

func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info("서비스 중지 진입: API 서비스 종료 프로세스를 시작합니다")
	case <-httpServerDone:
		applog.WithComponent(constants.ComponentService).Error("HTTP 서버가 예기치 않게 종료되었습니다")
		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error("HTTP 서버 종료 중 오류가 발생했습니다")
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info("서비스 중지 완료: API 서비스가 종료되었습니다")
}
