package service

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

type registry struct {
	factories map[string]NewServiceFunc
	mu        sync.RWMutex
}

var defaultRegistry = newRegistry()

func newRegistry() *registry {
	return &registry{factories: make(map[string]NewServiceFunc)}
}

func serviceKey(namespace, name string) string {
	return namespace + "::" + name
}

// MustRegister 서비스를 등록하며, 실패 시 패닉을 발생시킵니다. 서비스 패키지의 init()에서 호출합니다.
func MustRegister(namespace, name string, fn NewServiceFunc) {
	if err := defaultRegistry.register(namespace, name, fn); err != nil {
		panic(err.Error())
	}
}

// Services 등록된 서비스 목록을 "네임스페이스::이름" 형식으로 반환합니다.
func Services() []string {
	return defaultRegistry.services()
}

func (r *registry) register(namespace, name string, fn NewServiceFunc) error {
	if strings.TrimSpace(namespace) == "" || strings.TrimSpace(name) == "" {
		return apperrors.New(apperrors.InvalidInput, "서비스 네임스페이스와 이름은 필수입니다")
	}
	if fn == nil {
		return apperrors.New(apperrors.InvalidInput, "NewServiceFunc는 nil일 수 없습니다")
	}

	key := serviceKey(namespace, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return apperrors.New(apperrors.Conflict, fmt.Sprintf("이미 등록된 서비스입니다: '%s'", key))
	}
	r.factories[key] = fn

	return nil
}

func (r *registry) lookup(namespace, name string) (NewServiceFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.factories[serviceKey(namespace, name)]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("등록되지 않은 서비스입니다: '%s'", serviceKey(namespace, name)))
	}
	return fn, nil
}

func (r *registry) services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}
