package middleware

import (
	"net/http"
	"strings"

	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/labstack/echo/v4"
)

type ServiceCtxKey struct{}

// ServiceAuthMiddleware guards mutating routes behind a bearer service
// token minted with the shared secret.
func (mw *MiddlewareManager) ServiceAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bearerHeader := c.Request().Header.Get("Authorization")
			if bearerHeader == "" {
				mw.logger.Errorf("auth middleware: missing Authorization header, RequestID: %s", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			headerParts := strings.Split(bearerHeader, " ")
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "Bearer") {
				mw.logger.Errorf("auth middleware: malformed Authorization header, RequestID: %s", utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			claims, err := utils.ValidateServiceToken(headerParts[1], mw.cfg)
			if err != nil {
				mw.logger.Errorf("auth middleware: invalid token: %v, RequestID: %s", err, utils.GetRequestID(c))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}

			c.Set("service", claims.Service)
			return next(c)
		}
	}
}
