package mocks

import (
	"context"

	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/stretchr/testify/mock"
)

// MockClient는 contract.Client 인터페이스의 Mock 구현체입니다.
// 플랫폼 없이 클라이언트 측 로직(SDK, 스트레스 테스트 통계)을 테스트할 때 사용합니다.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateSession(ctx context.Context, defaultOptions contract.TaskOptions, partitionIDs []string) (contract.SessionID, error) {
	args := m.Called(ctx, defaultOptions, partitionIDs)
	return args.Get(0).(contract.SessionID), args.Error(1)
}

func (m *MockClient) GetSession(ctx context.Context, sessionID contract.SessionID) (contract.SessionInfo, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(contract.SessionInfo), args.Error(1)
}

func (m *MockClient) CancelSession(ctx context.Context, sessionID contract.SessionID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockClient) CloseSession(ctx context.Context, sessionID contract.SessionID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockClient) CreateResultsMetadata(ctx context.Context, sessionID contract.SessionID, names []string) ([]contract.Result, error) {
	args := m.Called(ctx, sessionID, names)
	if v := args.Get(0); v != nil {
		return v.([]contract.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) CreateResults(ctx context.Context, sessionID contract.SessionID, items []contract.NamedData) ([]contract.Result, error) {
	args := m.Called(ctx, sessionID, items)
	if v := args.Get(0); v != nil {
		return v.([]contract.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) UploadResultData(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID, data []byte) error {
	args := m.Called(ctx, sessionID, resultID, data)
	return args.Error(0)
}

func (m *MockClient) DownloadResultData(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID) ([]byte, error) {
	args := m.Called(ctx, sessionID, resultID)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) GetResult(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID) (contract.Result, error) {
	args := m.Called(ctx, sessionID, resultID)
	return args.Get(0).(contract.Result), args.Error(1)
}

func (m *MockClient) SubmitTasks(ctx context.Context, sessionID contract.SessionID, tasks []contract.TaskCreation) ([]contract.TaskInfo, error) {
	args := m.Called(ctx, sessionID, tasks)
	if v := args.Get(0); v != nil {
		return v.([]contract.TaskInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) ListTasks(ctx context.Context, sessionID contract.SessionID) ([]contract.TaskDetailed, error) {
	args := m.Called(ctx, sessionID)
	if v := args.Get(0); v != nil {
		return v.([]contract.TaskDetailed), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) WaitForResultsAvailability(ctx context.Context, sessionID contract.SessionID, resultIDs []contract.ResultID) error {
	args := m.Called(ctx, sessionID, resultIDs)
	return args.Error(0)
}

var _ contract.Client = (*MockClient)(nil)
var _ contract.TaskAgent = (*MockTaskAgent)(nil)
var _ contract.TaskDispatcher = (*MockTaskDispatcher)(nil)
var _ contract.TaskHandler = (*MockTaskHandler)(nil)
