package service

import (
	"context"
	"sync"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/sdk"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/internal/service/worker"
	"github.com/darkkaiser/armonik-samples/pkg/concurrency"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

const component = "sdk.worker"

// ApplicationName SDK 방식 Task를 처리하는 워커 애플리케이션 이름입니다. worker_lib.name의 기본값과 같습니다.
const ApplicationName = "ArmoniK.Samples.SDK.Worker"

func init() {
	worker.MustRegister(ApplicationName, func(appConfig *config.AppConfig) (contract.Processor, error) {
		return NewProcessor(appConfig), nil
	})
}

type instanceKey struct {
	sessionID contract.SessionID
	service   string
}

func (k instanceKey) String() string {
	return string(k.sessionID) + "/" + k.service
}

// Processor TaskOptions의 (ApplicationNamespace, ApplicationService)로 서비스를 찾아 TaskPayload의 메서드를 호출합니다.
type Processor struct {
	appConfig *config.AppConfig
	registry  *registry

	// locks 같은 세션/서비스 인스턴스의 생성과 정리를 직렬화합니다.
	locks *concurrency.KeyedMutex[instanceKey]

	mu        sync.Mutex
	instances map[instanceKey]Service
}

func NewProcessor(appConfig *config.AppConfig) *Processor {
	return &Processor{
		appConfig: appConfig,
		registry:  defaultRegistry,
		locks:     concurrency.NewKeyedMutex[instanceKey](),
		instances: make(map[instanceKey]Service),
	}
}

func (p *Processor) Execute(ctx context.Context, handler contract.TaskHandler) error {
	outputs := handler.ExpectedResults()
	if len(outputs) == 0 {
		return apperrors.New(apperrors.InvalidInput, "출력 결과가 지정되지 않은 Task입니다")
	}

	payload, err := sdk.DecodeTaskPayload(handler.Payload())
	if err != nil {
		return err
	}

	opts := handler.TaskOptions()
	svc, err := p.instance(ctx, handler.SessionID(), opts.ApplicationNamespace, opts.ApplicationService)
	if err != nil {
		return err
	}

	value, err := svc.Call(ctx, payload.MethodName, payload.Arguments)
	if err != nil {
		return err
	}

	return handler.SendResult(ctx, outputs[0], value)
}

// instance 세션의 서비스 인스턴스를 반환합니다. 처음 요청되면 생성한 뒤 EnterSession을 호출합니다.
func (p *Processor) instance(ctx context.Context, sessionID contract.SessionID, namespace, name string) (Service, error) {
	key := instanceKey{sessionID: sessionID, service: serviceKey(namespace, name)}

	return concurrency.WithLock(p.locks, key, func() (Service, error) {
		p.mu.Lock()
		existing, ok := p.instances[key]
		p.mu.Unlock()
		if ok {
			return existing, nil
		}

		newService, err := p.registry.lookup(namespace, name)
		if err != nil {
			return nil, err
		}

		created, err := newService(p.appConfig)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.Internal, "서비스 생성에 실패했습니다: '%s'", key.service)
		}

		if err := created.EnterSession(ctx, sessionID); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "서비스 세션 진입에 실패했습니다: '%s'", key)
		}

		p.mu.Lock()
		p.instances[key] = created
		p.mu.Unlock()

		applog.WithComponentAndFields(component, applog.Fields{
			"session_id": sessionID,
			"service":    key.service,
		}).Info("서비스 세션 진입")

		return created, nil
	})
}

// SessionClosed 세션의 서비스 인스턴스를 모두 정리합니다.
func (p *Processor) SessionClosed(sessionID contract.SessionID) {
	p.leave(func(k instanceKey) bool { return k.sessionID == sessionID })
}

// Close 남아 있는 모든 서비스 인스턴스를 정리합니다.
func (p *Processor) Close() error {
	p.leave(func(instanceKey) bool { return true })
	return nil
}

func (p *Processor) leave(match func(instanceKey) bool) {
	p.mu.Lock()
	var keys []instanceKey
	for k := range p.instances {
		if match(k) {
			keys = append(keys, k)
		}
	}
	p.mu.Unlock()

	for _, k := range keys {
		p.leaveOne(k)
	}
}

func (p *Processor) leaveOne(k instanceKey) {
	p.locks.Lock(k)
	defer p.locks.Unlock(k)

	p.mu.Lock()
	svc, ok := p.instances[k]
	delete(p.instances, k)
	p.mu.Unlock()

	if !ok {
		return
	}

	fields := applog.Fields{
		"session_id": k.sessionID,
		"service":    k.service,
	}
	if err := svc.LeaveSession(context.Background(), k.sessionID); err != nil {
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Warn("서비스 세션 이탈 중 오류가 발생했습니다")
		return
	}
	applog.WithComponentAndFields(component, fields).Info("서비스 세션 이탈")
}

// Instances 현재 유지 중인 서비스 인스턴스 수입니다.
func (p *Processor) Instances() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.instances)
}

var (
	_ contract.Processor       = (*Processor)(nil)
	_ contract.SessionObserver = (*Processor)(nil)
)
