// Package concurrency 키 단위 동기화 도구를 제공합니다.
package concurrency

import (
	"fmt"
	"sync"
)

// KeyedMutex 키마다 독립적인 잠금을 제공합니다. 보유자와 대기자가 모두 사라진 키의 잠금은 제거됩니다.
//
// 제로 값은 사용할 수 없으며 NewKeyedMutex로 생성해야 합니다.
type KeyedMutex[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*lockEntry
}

type lockEntry struct {
	sync.Mutex

	// waiters 잠금을 보유하거나 기다리는 고루틴 수
	waiters int
}

func NewKeyedMutex[K comparable]() *KeyedMutex[K] {
	return &KeyedMutex[K]{entries: make(map[K]*lockEntry)}
}

// Len 현재 사용 중인 키의 수입니다.
func (km *KeyedMutex[K]) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.entries)
}

func (km *KeyedMutex[K]) Lock(key K) {
	km.mu.Lock()
	e := km.entries[key]
	if e == nil {
		e = &lockEntry{}
		km.entries[key] = e
	}
	e.waiters++
	km.mu.Unlock()

	e.Lock()
}

// Unlock 잠기지 않은 키를 해제하면 패닉이 발생합니다.
func (km *KeyedMutex[K]) Unlock(key K) {
	km.mu.Lock()
	defer km.mu.Unlock()

	e := km.entries[key]
	if e == nil {
		panic(fmt.Sprintf("concurrency: 잠기지 않은 키의 잠금 해제: %v", key))
	}
	e.Unlock()

	if e.waiters--; e.waiters == 0 {
		delete(km.entries, key)
	}
}

// WithLock key를 잠근 상태로 fn을 실행하고 그 결과를 반환합니다.
func WithLock[K comparable, T any](km *KeyedMutex[K], key K, fn func() (T, error)) (T, error) {
	km.Lock(key)
	defer km.Unlock(key)
	return fn()
}
