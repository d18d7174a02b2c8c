package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/sdk"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/internal/service/contract/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	Methods

	entered  atomic.Int32
	left     atomic.Int32
	leaveErr error
}

func (s *countingService) EnterSession(context.Context, contract.SessionID) error {
	s.entered.Add(1)
	return nil
}

func (s *countingService) LeaveSession(context.Context, contract.SessionID) error {
	s.left.Add(1)
	return s.leaveErr
}

func newCountingService() *countingService {
	return &countingService{
		Methods: Methods{
			"upper": func(_ context.Context, args []byte) ([]byte, error) {
				out := make([]byte, len(args))
				for i, c := range args {
					if c >= 'a' && c <= 'z' {
						c -= 'a' - 'A'
					}
					out[i] = c
				}
				return out, nil
			},
			"fail": func(context.Context, []byte) ([]byte, error) {
				return nil, errors.New("method failed")
			},
		},
	}
}

// newTestProcessor 세션마다 새 countingService를 만드는 Processor와, 만들어진 인스턴스 목록을 반환합니다.
func newTestProcessor(t *testing.T) (*Processor, func() []*countingService) {
	t.Helper()

	var mu sync.Mutex
	var created []*countingService

	r := newRegistry()
	require.NoError(t, r.register("Tests", "Upper", func(*config.AppConfig) (Service, error) {
		s := newCountingService()
		mu.Lock()
		created = append(created, s)
		mu.Unlock()
		return s, nil
	}))

	cfg := config.Default()
	p := NewProcessor(&cfg)
	p.registry = r

	return p, func() []*countingService {
		mu.Lock()
		defer mu.Unlock()
		return append([]*countingService(nil), created...)
	}
}

func newHandler(t *testing.T, sessionID contract.SessionID, service, method string, outputs []contract.ResultID) *mocks.MockTaskHandler {
	t.Helper()

	raw, err := sdk.TaskPayload{MethodName: method, Arguments: []byte("hello")}.Encode()
	require.NoError(t, err)

	h := &mocks.MockTaskHandler{}
	h.On("ExpectedResults").Return(outputs)
	h.On("Payload").Return(raw).Maybe()
	h.On("SessionID").Return(sessionID).Maybe()
	h.On("TaskOptions").Return(contract.TaskOptions{ApplicationNamespace: "Tests", ApplicationService: service}).Maybe()
	return h
}

func TestProcessor_Execute(t *testing.T) {
	t.Parallel()

	p, created := newTestProcessor(t)

	h := newHandler(t, "s-1", "Upper", "upper", []contract.ResultID{"out"})
	h.On("SendResult", mock.Anything, contract.ResultID("out"), []byte("HELLO")).Return(nil).Once()

	require.NoError(t, p.Execute(context.Background(), h))
	h.AssertExpectations(t)

	require.Len(t, created(), 1)
	assert.Equal(t, int32(1), created()[0].entered.Load())
	assert.Equal(t, 1, p.Instances())
}

func TestProcessor_Execute_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		service  string
		method   string
		outputs  []contract.ResultID
		wantType apperrors.ErrorType
	}{
		{"출력 결과 없음", "Upper", "upper", nil, apperrors.InvalidInput},
		{"등록되지 않은 서비스", "Missing", "upper", []contract.ResultID{"out"}, apperrors.NotFound},
		{"지원하지 않는 메서드", "Upper", "lower", []contract.ResultID{"out"}, apperrors.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, _ := newTestProcessor(t)
			h := newHandler(t, "s-1", tt.service, tt.method, tt.outputs)

			err := p.Execute(context.Background(), h)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantType), "err=%v", err)
			h.AssertNotCalled(t, "SendResult", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("잘못된 페이로드", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProcessor(t)

		h := &mocks.MockTaskHandler{}
		h.On("ExpectedResults").Return([]contract.ResultID{"out"})
		h.On("Payload").Return([]byte("not-json"))

		err := p.Execute(context.Background(), h)
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("메서드 에러 전파", func(t *testing.T) {
		t.Parallel()

		p, _ := newTestProcessor(t)
		h := newHandler(t, "s-1", "Upper", "fail", []contract.ResultID{"out"})

		assert.EqualError(t, p.Execute(context.Background(), h), "method failed")
	})
}

func TestProcessor_OneInstancePerSession(t *testing.T) {
	t.Parallel()

	p, created := newTestProcessor(t)

	var wg sync.WaitGroup
	for _, sid := range []contract.SessionID{"s-1", "s-1", "s-1", "s-2", "s-2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()

			h := newHandler(t, sid, "Upper", "upper", []contract.ResultID{"out"})
			h.On("SendResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			assert.NoError(t, p.Execute(context.Background(), h))
		}()
	}
	wg.Wait()

	require.Len(t, created(), 2)
	for _, s := range created() {
		assert.Equal(t, int32(1), s.entered.Load())
	}

	p.SessionClosed("s-1")
	assert.Equal(t, 1, p.Instances())

	require.NoError(t, p.Close())
	assert.Equal(t, 0, p.Instances())
	for _, s := range created() {
		assert.Equal(t, int32(1), s.left.Load(), "세션마다 LeaveSession이 한 번 호출되어야 합니다")
	}
}

func TestProcessor_LeaveErrorIsIgnored(t *testing.T) {
	t.Parallel()

	p, created := newTestProcessor(t)

	h := newHandler(t, "s-1", "Upper", "upper", []contract.ResultID{"out"})
	h.On("SendResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, p.Execute(context.Background(), h))

	created()[0].leaveErr = errors.New("leave failed")
	p.SessionClosed("s-1")

	assert.Equal(t, 0, p.Instances())
	p.SessionClosed("unknown")
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	fn := func(*config.AppConfig) (Service, error) { return newCountingService(), nil }

	require.NoError(t, r.register("ns", "a", fn))
	assert.True(t, apperrors.Is(r.register("ns", "a", fn), apperrors.Conflict))
	assert.True(t, apperrors.Is(r.register("", "a", fn), apperrors.InvalidInput))
	assert.True(t, apperrors.Is(r.register("ns", "b", nil), apperrors.InvalidInput))

	_, err := r.lookup("ns", "missing")
	assert.True(t, apperrors.Is(err, apperrors.NotFound))

	assert.Equal(t, []string{"ns::a"}, r.services())
}
