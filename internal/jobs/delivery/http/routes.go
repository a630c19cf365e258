package http

import (
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/middleware"
	"github.com/labstack/echo/v4"
)

// MapJobRoutes wires the clip-job API. Read-only routes are open; mutating
// routes require a service token.
func MapJobRoutes(jobGroup *echo.Group, h jobs.Handlers, mw *middleware.MiddlewareManager) {
	jobGroup.POST("/upload", h.UploadJob(), mw.ServiceAuthMiddleware())
	jobGroup.POST("/get-upload-url", h.PresignUpload(), mw.ServiceAuthMiddleware())
	jobGroup.GET("/:job_id/status", h.GetJobStatus())
	jobGroup.GET("/:job_id/download", h.DownloadClips())
	jobGroup.GET("/titles", h.GetTitles())
	jobGroup.PUT("/titles", h.SaveTitles(), mw.ServiceAuthMiddleware())
	jobGroup.GET("/sounds", h.GetSounds())
}
