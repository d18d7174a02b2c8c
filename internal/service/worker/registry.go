package worker

import (
	"slices"
	"strings"
	"sync"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

// NewProcessorFunc 워커 애플리케이션의 Processor를 생성하는 팩토리 함수입니다.
// 애플리케이션별로 워커 서비스당 한 번만 호출됩니다.
type NewProcessorFunc func(appConfig *config.AppConfig) (contract.Processor, error)

// Registry 애플리케이션 이름(TaskOptions.ApplicationName)별 Processor 팩토리 저장소입니다.
type Registry struct {
	factories map[string]NewProcessorFunc
	mu        sync.RWMutex
}

// defaultRegistry 각 애플리케이션 패키지의 init()에서 등록하는 전역 Registry입니다.
var defaultRegistry = newRegistry()

func newRegistry() *Registry {
	return &Registry{
		factories: make(map[string]NewProcessorFunc),
	}
}

// MustRegister 전역 Registry에 애플리케이션을 등록하며, 실패 시 패닉을 발생시킵니다.
func MustRegister(applicationName string, fn NewProcessorFunc) {
	defaultRegistry.MustRegister(applicationName, fn)
}

// Applications 전역 Registry에 등록된 애플리케이션 이름 목록을 반환합니다.
func Applications() []string {
	return defaultRegistry.Applications()
}

func (r *Registry) MustRegister(applicationName string, fn NewProcessorFunc) {
	if err := r.Register(applicationName, fn); err != nil {
		panic(err.Error())
	}
}

func (r *Registry) Register(applicationName string, fn NewProcessorFunc) error {
	if strings.TrimSpace(applicationName) == "" {
		return apperrors.New(apperrors.InvalidInput, "애플리케이션 이름은 필수입니다")
	}
	if fn == nil {
		return apperrors.New(apperrors.InvalidInput, "NewProcessorFunc는 nil일 수 없습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[applicationName]; exists {
		return newErrDuplicateApplication(applicationName)
	}
	r.factories[applicationName] = fn

	applog.WithComponentAndFields(component, applog.Fields{
		"application": applicationName,
	}).Debug("워커 애플리케이션 등록 완료")

	return nil
}

func (r *Registry) lookup(applicationName string) (NewProcessorFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.factories[applicationName]
	if !ok {
		return nil, newErrApplicationNotSupported(applicationName)
	}
	return fn, nil
}

func (r *Registry) Applications() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
