package api

import (
	"github.com/darkkaiser/armonik-samples/internal/service/api/handler/system"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes 버전과 무관한 시스템 라우트를 등록합니다.
// gatherer가 nil이면 /metrics는 등록하지 않습니다.
func RegisterRoutes(e *echo.Echo, h *system.Handler, gatherer prometheus.Gatherer) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)

	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
