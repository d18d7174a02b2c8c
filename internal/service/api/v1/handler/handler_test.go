package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/httputil"
	v1 "github.com/darkkaiser/armonik-samples/internal/service/api/v1"
	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/handler"
	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/model"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/internal/service/contract/mocks"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*echo.Echo, *mocks.MockClient) {
	t.Helper()

	client := &mocks.MockClient{}
	t.Cleanup(func() { client.AssertExpectations(t) })

	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	v1.RegisterRoutes(e, handler.NewHandler(client))

	return e, client
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewHandler_NilClient(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { handler.NewHandler(nil) })
}

func TestSessions(t *testing.T) {
	t.Parallel()

	e, client := setup(t)

	opts := contract.TaskOptions{Priority: 2, ApplicationName: "hello-world"}
	client.On("CreateSession", mock.Anything, opts, []string{"p1"}).Return(contract.SessionID("s-1"), nil).Once()
	client.On("GetSession", mock.Anything, contract.SessionID("s-1")).
		Return(contract.SessionInfo{ID: "s-1", Status: contract.SessionStatusRunning}, nil).Once()
	client.On("CloseSession", mock.Anything, contract.SessionID("s-1")).Return(nil).Once()
	client.On("CancelSession", mock.Anything, contract.SessionID("s-2")).
		Return(apperrors.New(apperrors.NotFound, "세션 없음")).Once()

	rec := do(e, http.MethodPost, "/api/v1/sessions",
		`{"default_options":{"priority":2,"application_name":"hello-world"},"partition_ids":["p1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"session_id":"s-1"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/sessions/s-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info contract.SessionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, contract.SessionStatusRunning, info.Status)

	rec = do(e, http.MethodPost, "/api/v1/sessions/s-1/close", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/sessions/s-2/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error_type":"NotFound"`)
}

func TestCreateSession_InvalidBody(t *testing.T) {
	t.Parallel()

	e, _ := setup(t)

	tests := []struct {
		name string
		body string
	}{
		{"깨진 JSON", `{"default_options":`},
		{"빈 파티션 ID", `{"partition_ids":[""]}`},
	}

	for _, tt := range tests {
		rec := do(e, http.MethodPost, "/api/v1/sessions", tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.name)
		assert.Contains(t, rec.Body.String(), `"error_type":"InvalidInput"`, tt.name)
	}
}

func TestResults(t *testing.T) {
	t.Parallel()

	e, client := setup(t)
	sid := contract.SessionID("s-1")

	client.On("CreateResultsMetadata", mock.Anything, sid, []string{"output"}).
		Return([]contract.Result{{ID: "r-out", Name: "output", Status: contract.ResultStatusCreated}}, nil).Once()
	client.On("CreateResults", mock.Anything, sid, []contract.NamedData{{Name: "payload", Data: []byte("hi")}}).
		Return([]contract.Result{{ID: "r-in", Name: "payload", Status: contract.ResultStatusCompleted}}, nil).Once()
	client.On("UploadResultData", mock.Anything, sid, contract.ResultID("r-out"), []byte("\x00\x01binary")).Return(nil).Once()
	client.On("DownloadResultData", mock.Anything, sid, contract.ResultID("r-out")).Return([]byte("\x00\x01binary"), nil).Once()
	client.On("GetResult", mock.Anything, sid, contract.ResultID("r-out")).
		Return(contract.Result{ID: "r-out", Status: contract.ResultStatusCompleted, Size: 8}, nil).Once()

	rec := do(e, http.MethodPost, "/api/v1/sessions/s-1/results", `{"names":["output"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp model.ResultsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, contract.ResultID("r-out"), resp.Results[0].ID)

	// []byte는 base64로 전달
	rec = do(e, http.MethodPost, "/api/v1/sessions/s-1/results/data", `{"items":[{"name":"payload","data":"aGk="}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/s-1/results/r-out/data", strings.NewReader("\x00\x01binary"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEOctetStream)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/sessions/s-1/results/r-out/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMEOctetStream, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, []byte("\x00\x01binary"), rec.Body.Bytes())

	rec = do(e, http.MethodGet, "/api/v1/sessions/s-1/results/r-out", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Completed"`)
}

func TestCreateResultsMetadata_Validation(t *testing.T) {
	t.Parallel()

	e, _ := setup(t)

	rec := do(e, http.MethodPost, "/api/v1/sessions/s-1/results", `{"names":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "names")
}

func TestTasks(t *testing.T) {
	t.Parallel()

	e, client := setup(t)
	sid := contract.SessionID("s-1")

	creation := contract.TaskCreation{PayloadID: "r-in", ExpectedOutputs: []contract.ResultID{"r-out"}}
	client.On("SubmitTasks", mock.Anything, sid, []contract.TaskCreation{creation}).
		Return([]contract.TaskInfo{{TaskID: "t-1", PayloadID: "r-in", ExpectedOutputs: creation.ExpectedOutputs}}, nil).Once()
	client.On("ListTasks", mock.Anything, sid).
		Return([]contract.TaskDetailed{{ID: "t-1", Status: contract.TaskStatusCompleted}}, nil).Once()

	rec := do(e, http.MethodPost, "/api/v1/sessions/s-1/tasks", `{"tasks":[{"payload_id":"r-in","expected_outputs":["r-out"]}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var submitted model.SubmitTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, contract.TaskID("t-1"), submitted.Tasks[0].TaskID)

	rec = do(e, http.MethodGet, "/api/v1/sessions/s-1/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed model.ListTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, contract.TaskStatusCompleted, listed.Tasks[0].Status)

	rec = do(e, http.MethodPost, "/api/v1/sessions/s-1/tasks", `{"tasks":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWaitForResults(t *testing.T) {
	t.Parallel()

	ids := []contract.ResultID{"r-out"}

	tests := []struct {
		name      string
		setup     func(*mocks.MockClient)
		body      string
		wantCode  int
		wantBody  string
		wantError string
	}{
		{
			name: "완료",
			setup: func(m *mocks.MockClient) {
				m.On("WaitForResultsAvailability", mock.Anything, contract.SessionID("s-1"), ids).Return(nil).Once()
			},
			body:     `{"result_ids":["r-out"]}`,
			wantCode: http.StatusOK,
			wantBody: `{"completed":true}`,
		},
		{
			name: "대기 시간 만료",
			setup: func(m *mocks.MockClient) {
				m.On("WaitForResultsAvailability", mock.Anything, contract.SessionID("s-1"), ids).
					Run(func(args mock.Arguments) {
						<-args.Get(0).(context.Context).Done()
					}).
					Return(apperrors.New(apperrors.Timeout, "대기 중단")).Once()
			},
			body:     `{"result_ids":["r-out"],"timeout_ms":20}`,
			wantCode: http.StatusOK,
			wantBody: `{"completed":false}`,
		},
		{
			name: "결과 실패",
			setup: func(m *mocks.MockClient) {
				m.On("WaitForResultsAvailability", mock.Anything, contract.SessionID("s-1"), ids).
					Return(apperrors.New(apperrors.ExecutionFailed, "결과가 Aborted 되었습니다")).Once()
			},
			body:      `{"result_ids":["r-out"]}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "ExecutionFailed",
		},
		{
			name:      "대기 시간 상한 초과",
			setup:     func(*mocks.MockClient) {},
			body:      `{"result_ids":["r-out"],"timeout_ms":600000}`,
			wantCode:  http.StatusBadRequest,
			wantError: "InvalidInput",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, client := setup(t)
			tt.setup(client)

			start := time.Now()
			rec := do(e, http.MethodPost, "/api/v1/sessions/s-1/events/wait", tt.body)
			assert.Less(t, time.Since(start), 5*time.Second)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), `"error_type":"`+tt.wantError+`"`)
			}
		})
	}
}
