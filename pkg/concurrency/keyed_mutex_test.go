package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()

	var active, peak atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			km.Lock("session-1")
			n := active.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			active.Add(-1)
			km.Unlock("session-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
	assert.Zero(t, km.Len(), "사용이 끝난 키는 정리되어야 합니다")
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	t.Parallel()

	type key struct {
		session string
		service string
	}
	km := NewKeyedMutex[key]()

	km.Lock(key{"s-1", "hello"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		km.Lock(key{"s-1", "stress"})
		km.Unlock(key{"s-1", "stress"})
	}()
	<-done

	assert.Equal(t, 1, km.Len())
	km.Unlock(key{"s-1", "hello"})
	assert.Zero(t, km.Len())
}

func TestWithLock(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[int]()

	v, err := WithLock(km, 1, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	want := errors.New("fail")
	_, err = WithLock(km, 1, func() (string, error) { return "", want })
	assert.ErrorIs(t, err, want)
	assert.Zero(t, km.Len())
}

func TestKeyedMutex_UnlockWithoutLock(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewKeyedMutex[string]().Unlock("missing") })
}
