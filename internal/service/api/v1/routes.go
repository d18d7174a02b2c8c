// Package v1 컨트롤 플레인 v1 API 라우트를 등록합니다.
package v1

import (
	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes /api/v1 하위 라우트를 등록합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	grp := e.Group("/api/v1")

	grp.POST("/sessions", h.CreateSession)

	sessions := grp.Group("/sessions/:session")
	{
		sessions.GET("", h.GetSession)
		sessions.POST("/close", h.CloseSession)
		sessions.POST("/cancel", h.CancelSession)

		sessions.POST("/results", h.CreateResultsMetadata)
		sessions.POST("/results/data", h.CreateResults)
		sessions.GET("/results/:result", h.GetResult)
		sessions.PUT("/results/:result/data", h.UploadResultData)
		sessions.GET("/results/:result/data", h.DownloadResultData)

		sessions.POST("/tasks", h.SubmitTasks)
		sessions.GET("/tasks", h.ListTasks)

		sessions.POST("/events/wait", h.WaitForResults)
	}
}
