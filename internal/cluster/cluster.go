// Package cluster 로컬 플랫폼, 워커, (선택적으로) API 서버를 하나의 프로세스에 조립합니다.
package cluster

import (
	"context"
	"sync"

	"github.com/darkkaiser/armonik-samples/internal/client"
	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/pkg/version"
	"github.com/darkkaiser/armonik-samples/internal/service"
	"github.com/darkkaiser/armonik-samples/internal/service/api"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/internal/service/platform"
	"github.com/darkkaiser/armonik-samples/internal/service/worker"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// component 클러스터 조립의 로깅용 컴포넌트 이름
const component = "cluster"

// Cluster 한 프로세스 안에서 동작하는 로컬 플랫폼입니다.
type Cluster struct {
	appConfig *config.AppConfig

	registry *prometheus.Registry

	platform *platform.Service
	worker   *worker.Service
	api      *api.Service
}

// Option Cluster 구성 옵션입니다.
type Option func(*Cluster)

// WithAPI 컨트롤 플레인을 HTTP로 노출하는 API 서버를 함께 실행합니다.
func WithAPI(buildInfo version.Info) Option {
	return func(c *Cluster) {
		c.api = api.NewService(c.appConfig, c.platform, c.registry, buildInfo)
	}
}

// New 서비스들을 생성하고 서로 연결합니다. 시작은 Start에서 합니다.
func New(appConfig *config.AppConfig, opts ...Option) *Cluster {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	platformService := platform.NewService(appConfig)
	workerService := worker.NewService(appConfig, registry)

	// 플랫폼과 워커는 서로를 참조하므로 Setter로 연결
	platformService.SetTaskDispatcher(workerService)
	workerService.SetTaskAgent(platformService)

	c := &Cluster{
		appConfig: appConfig,

		registry: registry,

		platform: platformService,
		worker:   workerService,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Services 시작 순서대로 정렬된 서비스 목록입니다.
func (c *Cluster) Services() []service.Service {
	services := []service.Service{c.platform, c.worker}
	if c.api != nil {
		services = append(services, c.api)
	}
	return services
}

// Start 모든 서비스를 시작합니다. 서비스마다 serviceStopWG.Add(1)을 호출하므로 호출자는 Add 하지 않습니다.
//
// 도중에 실패하면 에러를 반환하며, 이미 시작된 서비스는 serviceStopCtx가 취소될 때 종료됩니다.
func (c *Cluster) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	for _, s := range c.Services() {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("서비스 초기화에 실패하였습니다")

			return err
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"partition_id": c.appConfig.PartitionID,
		"worker_count": c.appConfig.Platform.WorkerCount,
		"api_enabled":  c.api != nil,
		"applications": worker.Applications(),
	}).Info("로컬 플랫폼 가동 완료")

	return nil
}

// Client 같은 프로세스에서 플랫폼을 직접 호출하는 contract.Client입니다.
func (c *Cluster) Client() contract.Client {
	return c.platform
}

// APIAddr API 서버가 바인딩된 주소입니다. API 서버가 없거나 시작 전이면 빈 문자열입니다.
func (c *Cluster) APIAddr() string {
	if c.api == nil {
		return ""
	}
	return c.api.Addr()
}

// Gatherer 워커와 런타임 메트릭이 등록된 레지스트리입니다.
func (c *Cluster) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Connect 샘플 클라이언트가 사용할 contract.Client를 반환합니다.
//
// control_plane.endpoint가 설정되어 있으면 HTTP 클라이언트를, 비어 있으면 같은 프로세스에
// 로컬 플랫폼을 띄워 사용합니다. 반환된 close 함수는 로컬 플랫폼의 종료까지 기다립니다.
func Connect(appConfig *config.AppConfig) (contract.Client, func(), error) {
	if appConfig.ControlPlane.Endpoint != "" {
		c, err := client.New(appConfig.ControlPlane)
		if err != nil {
			return nil, nil, err
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"endpoint": appConfig.ControlPlane.Endpoint,
		}).Info("원격 컨트롤 플레인에 연결합니다")

		return c, func() {}, nil
	}

	applog.WithComponent(component).Info("control_plane.endpoint가 비어 있어 로컬 플랫폼을 실행합니다")

	c := New(appConfig)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	closeFn := func() {
		cancel()
		wg.Wait()
	}

	if err := c.Start(ctx, wg); err != nil {
		closeFn()
		return nil, nil, err
	}

	return c.Client(), closeFn, nil
}
