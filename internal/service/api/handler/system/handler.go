// Package system 헬스 체크와 버전 정보 같은 시스템 엔드포인트를 제공합니다.
package system

import (
	"net/http"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/pkg/version"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/labstack/echo/v4"
)

// DependencyStatus 외부 의존성 하나의 상태입니다.
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse /health 응답입니다.
type HealthResponse struct {
	Status       string                      `json:"status"`
	Uptime       int64                       `json:"uptime"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Handler 시스템 엔드포인트 핸들러입니다.
type Handler struct {
	client contract.Client

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler를 생성합니다. client가 nil이면 헬스 체크는 unhealthy를 보고합니다.
func NewHandler(client contract.Client, buildInfo version.Info) *Handler {
	return &Handler{
		client:          client,
		buildInfo:       buildInfo,
		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서버 가동 시간과 컨트롤 플레인 연결 상태를 반환합니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"remote_ip": c.RealIP(),
	}).Debug("헬스 체크 요청")

	dep := DependencyStatus{Status: constants.HealthStatusHealthy}
	if h.client == nil {
		dep = DependencyStatus{
			Status:  constants.HealthStatusUnhealthy,
			Message: "컨트롤 플레인이 초기화되지 않았습니다",
		}
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:       dep.Status,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		Dependencies: map[string]DependencyStatus{constants.DependencyControlPlane: dep},
	})
}

// VersionHandler 빌드 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.buildInfo)
}
