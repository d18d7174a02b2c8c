// Package handler v1 컨트롤 플레인 API 핸들러입니다.
//
// 모든 핸들러는 contract.Client 호출로 위임하며, 반환된 AppError는
// 전역 에러 핸들러(httputil.ErrorHandler)가 HTTP 상태 코드로 변환합니다.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	apihandler "github.com/darkkaiser/armonik-samples/internal/service/api/handler"
	"github.com/darkkaiser/armonik-samples/internal/service/api/httputil"
	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/model"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
)

// Handler v1 API 핸들러입니다.
type Handler struct {
	client contract.Client

	defaultWaitTimeout time.Duration
}

// NewHandler Handler를 생성합니다.
func NewHandler(client contract.Client) *Handler {
	if client == nil {
		panic("v1 handler: contract.Client는 필수입니다")
	}

	return &Handler{
		client:             client,
		defaultWaitTimeout: constants.DefaultWaitTimeout,
	}
}

func sessionParam(c echo.Context) contract.SessionID {
	return contract.SessionID(c.Param(constants.ParamSession))
}

func resultParam(c echo.Context) contract.ResultID {
	return contract.ResultID(c.Param(constants.ParamResult))
}

// CreateSession 세션을 생성합니다.
func (h *Handler) CreateSession(c echo.Context) error {
	var req model.CreateSessionRequest
	if err := apihandler.BindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.client.CreateSession(c.Request().Context(), req.DefaultOptions, req.PartitionIDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, model.CreateSessionResponse{SessionID: id})
}

// GetSession 세션 정보를 조회합니다.
func (h *Handler) GetSession(c echo.Context) error {
	info, err := h.client.GetSession(c.Request().Context(), sessionParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

// CloseSession 세션의 새 Task 제출을 막습니다.
func (h *Handler) CloseSession(c echo.Context) error {
	if err := h.client.CloseSession(c.Request().Context(), sessionParam(c)); err != nil {
		return err
	}
	return httputil.Success(c)
}

// CancelSession 세션을 취소합니다.
func (h *Handler) CancelSession(c echo.Context) error {
	sessionID := sessionParam(c)
	if err := h.client.CancelSession(c.Request().Context(), sessionID); err != nil {
		return err
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"session_id": sessionID,
		"remote_ip":  c.RealIP(),
	}).Info("세션 취소 요청을 처리하였습니다")

	return httputil.Success(c)
}

// CreateResultsMetadata 데이터 없이 결과를 예약합니다.
func (h *Handler) CreateResultsMetadata(c echo.Context) error {
	var req model.CreateResultsMetadataRequest
	if err := apihandler.BindAndValidate(c, &req); err != nil {
		return err
	}

	results, err := h.client.CreateResultsMetadata(c.Request().Context(), sessionParam(c), req.Names)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, model.ResultsResponse{Results: results})
}

// CreateResults 데이터와 함께 결과를 생성합니다. 데이터는 JSON base64로 전달됩니다.
func (h *Handler) CreateResults(c echo.Context) error {
	var req model.CreateResultsRequest
	if err := apihandler.BindAndValidate(c, &req); err != nil {
		return err
	}

	results, err := h.client.CreateResults(c.Request().Context(), sessionParam(c), req.Items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, model.ResultsResponse{Results: results})
}

// GetResult 결과 메타데이터를 조회합니다.
func (h *Handler) GetResult(c echo.Context) error {
	r, err := h.client.GetResult(c.Request().Context(), sessionParam(c), resultParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// UploadResultData 요청 본문 전체를 결과 데이터로 기록합니다.
func (h *Handler) UploadResultData(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, constants.ErrMsgInvalidBody)
	}

	if err := h.client.UploadResultData(c.Request().Context(), sessionParam(c), resultParam(c), data); err != nil {
		return err
	}
	return httputil.Success(c)
}

// DownloadResultData 결과 데이터를 application/octet-stream으로 반환합니다.
func (h *Handler) DownloadResultData(c echo.Context) error {
	data, err := h.client.DownloadResultData(c.Request().Context(), sessionParam(c), resultParam(c))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
}

// SubmitTasks Task를 제출합니다.
func (h *Handler) SubmitTasks(c echo.Context) error {
	var req model.SubmitTasksRequest
	if err := apihandler.BindAndValidate(c, &req); err != nil {
		return err
	}

	infos, err := h.client.SubmitTasks(c.Request().Context(), sessionParam(c), req.Tasks)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, model.SubmitTasksResponse{Tasks: infos})
}

// ListTasks 세션의 모든 Task를 조회합니다.
func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.client.ListTasks(c.Request().Context(), sessionParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model.ListTasksResponse{Tasks: tasks})
}

// WaitForResults 결과가 모두 Completed가 되거나 대기 시간이 끝날 때까지 응답을 보류합니다.
//
// 대기 시간이 끝나면 Completed=false로 응답합니다. 결과 중 하나라도 Aborted가 되면 에러로 응답합니다.
func (h *Handler) WaitForResults(c echo.Context) error {
	var req model.WaitRequest
	if err := apihandler.BindAndValidate(c, &req); err != nil {
		return err
	}

	timeout := h.defaultWaitTimeout
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}

	reqCtx := c.Request().Context()
	ctx, cancel := context.WithTimeout(reqCtx, timeout)
	defer cancel()

	err := h.client.WaitForResultsAvailability(ctx, sessionParam(c), req.ResultIDs)
	if err != nil {
		// 요청 자체가 살아 있고 대기 시간만 끝난 경우
		if ctx.Err() != nil && reqCtx.Err() == nil {
			return c.JSON(http.StatusOK, model.WaitResponse{Completed: false})
		}
		return err
	}

	return c.JSON(http.StatusOK, model.WaitResponse{Completed: true})
}
