package mocks

import (
	"context"

	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/stretchr/testify/mock"
)

// MockTaskAgent는 contract.TaskAgent 인터페이스의 Mock 구현체입니다.
type MockTaskAgent struct {
	mock.Mock
}

func (m *MockTaskAgent) StartTask(ctx context.Context, taskID contract.TaskID, podID string) error {
	args := m.Called(ctx, taskID, podID)
	return args.Error(0)
}

func (m *MockTaskAgent) ReadData(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID) ([]byte, error) {
	args := m.Called(ctx, sessionID, resultID)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskAgent) WriteResult(ctx context.Context, taskID contract.TaskID, resultID contract.ResultID, data []byte) error {
	args := m.Called(ctx, taskID, resultID, data)
	return args.Error(0)
}

func (m *MockTaskAgent) CompleteTask(ctx context.Context, taskID contract.TaskID, cause error) error {
	args := m.Called(ctx, taskID, cause)
	return args.Error(0)
}

// MockTaskDispatcher는 contract.TaskDispatcher 인터페이스의 Mock 구현체입니다.
type MockTaskDispatcher struct {
	mock.Mock
}

func (m *MockTaskDispatcher) Dispatch(ctx context.Context, assignment contract.TaskAssignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockTaskDispatcher) CancelTasks(sessionID contract.SessionID) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockTaskDispatcher) SessionClosed(sessionID contract.SessionID) {
	m.Called(sessionID)
}

// MockTaskHandler는 contract.TaskHandler 인터페이스의 Mock 구현체입니다.
// Processor를 워커 없이 단독으로 테스트할 때 사용합니다.
type MockTaskHandler struct {
	mock.Mock
}

func (m *MockTaskHandler) SessionID() contract.SessionID {
	return m.Called().Get(0).(contract.SessionID)
}

func (m *MockTaskHandler) TaskID() contract.TaskID {
	return m.Called().Get(0).(contract.TaskID)
}

func (m *MockTaskHandler) Payload() []byte {
	if v := m.Called().Get(0); v != nil {
		return v.([]byte)
	}
	return nil
}

func (m *MockTaskHandler) DataDependencies() map[contract.ResultID][]byte {
	if v := m.Called().Get(0); v != nil {
		return v.(map[contract.ResultID][]byte)
	}
	return nil
}

func (m *MockTaskHandler) ExpectedResults() []contract.ResultID {
	if v := m.Called().Get(0); v != nil {
		return v.([]contract.ResultID)
	}
	return nil
}

func (m *MockTaskHandler) TaskOptions() contract.TaskOptions {
	return m.Called().Get(0).(contract.TaskOptions)
}

func (m *MockTaskHandler) SendResult(ctx context.Context, resultID contract.ResultID, data []byte) error {
	args := m.Called(ctx, resultID, data)
	return args.Error(0)
}
