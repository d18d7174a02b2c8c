package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		errType apperrors.ErrorType
		want    int
	}{
		{apperrors.InvalidInput, http.StatusBadRequest},
		{apperrors.ParsingFailed, http.StatusBadRequest},
		{apperrors.NotFound, http.StatusNotFound},
		{apperrors.Conflict, http.StatusConflict},
		{apperrors.Canceled, http.StatusConflict},
		{apperrors.ExecutionFailed, http.StatusUnprocessableEntity},
		{apperrors.Timeout, http.StatusGatewayTimeout},
		{apperrors.Unavailable, http.StatusServiceUnavailable},
		{apperrors.Internal, http.StatusInternalServerError},
		{apperrors.Unknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.errType.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusCode(tt.errType))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		err         error
		wantCode    int
		wantType    string
		wantMessage string
		wantEmpty   bool
	}{
		{
			name:        "AppError NotFound",
			method:      http.MethodGet,
			err:         apperrors.New(apperrors.NotFound, "세션을 찾을 수 없습니다"),
			wantCode:    http.StatusNotFound,
			wantType:    "NotFound",
			wantMessage: "세션을 찾을 수 없습니다",
		},
		{
			name:        "감싼 에러는 바깥 타입 기준",
			method:      http.MethodPost,
			err:         apperrors.Wrap(errors.New("원인"), apperrors.Conflict, "이미 닫힌 세션"),
			wantCode:    http.StatusConflict,
			wantType:    "Conflict",
			wantMessage: "이미 닫힌 세션: 원인",
		},
		{
			name:        "내부 오류 메시지는 숨김",
			method:      http.MethodGet,
			err:         apperrors.New(apperrors.Internal, "민감한 내부 상태"),
			wantCode:    http.StatusInternalServerError,
			wantType:    "Internal",
			wantMessage: constants.ErrMsgInternalServer,
		},
		{
			name:        "echo 라우팅 404",
			method:      http.MethodGet,
			err:         echo.ErrNotFound,
			wantCode:    http.StatusNotFound,
			wantType:    "NotFound",
			wantMessage: constants.ErrMsgNotFound,
		},
		{
			name:        "ErrorResponse를 담은 HTTPError",
			method:      http.MethodGet,
			err:         NewTooManyRequestsError(constants.ErrMsgTooManyRequests),
			wantCode:    http.StatusTooManyRequests,
			wantMessage: constants.ErrMsgTooManyRequests,
		},
		{
			name:        "일반 에러",
			method:      http.MethodGet,
			err:         errors.New("boom"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: constants.ErrMsgInternalServer,
		},
		{
			name:      "HEAD 요청은 본문 없음",
			method:    http.MethodHead,
			err:       NewBadRequestError("잘못된 요청"),
			wantCode:  http.StatusBadRequest,
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(tt.method, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantEmpty {
				assert.Empty(t, rec.Body.String())
				return
			}

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.ResultCode)
			assert.Equal(t, tt.wantType, resp.ErrorType)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, c.String(http.StatusOK, "done"))
	ErrorHandler(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestSuccess(t *testing.T) {
	t.Parallel()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, Success(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result_code":0,"message":"성공"}`, rec.Body.String())
}
