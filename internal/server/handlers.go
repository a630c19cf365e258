package server

import (
	"net/http"

	jobsHttp "github.com/clipforge/clipforge/internal/jobs/delivery/http"
	jobsRepository "github.com/clipforge/clipforge/internal/jobs/repository"
	jobsUsecase "github.com/clipforge/clipforge/internal/jobs/usecase"
	"github.com/clipforge/clipforge/internal/middleware"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	jRepo := jobsRepository.NewJobsRepo(s.db)
	jRedisRepo := jobsRepository.NewJobRedisRepo(s.redisClient, s.cfg.Redis.StatusPrefix)
	jAWSRepo := jobsRepository.NewAwsRepository(s.s3Client, s.preSignClient)

	jobsUC := jobsUsecase.NewJobsUseCase(s.cfg, jRepo, jRedisRepo, jAWSRepo, s.logger)
	jobsHandlers := jobsHttp.NewJobsHandler(s.cfg, jobsUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	jobGroup := v1.Group("/jobs")

	jobsHttp.MapJobRoutes(jobGroup, jobsHandlers, mw)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
