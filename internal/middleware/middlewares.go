package middleware

import (
	"time"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/labstack/echo/v4"
)

type MiddlewareManager struct {
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, origins: origins, logger: logger}
}

// RequestLoggerMiddleware logs method, path, status and latency per request.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		req := c.Request()
		res := c.Response()
		mw.logger.Infof("%s %s, Status: %d, Latency: %s, RequestID: %s, IP: %s",
			req.Method,
			req.URL.Path,
			res.Status,
			time.Since(start),
			utils.GetRequestID(c),
			utils.GetIPAddress(c),
		)
		return err
	}
}
