package utils

import (
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

var allowedVideoExts = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func GetIPAddress(c echo.Context) string {
	return c.Request().RemoteAddr
}

// AllowedVideoFile reports whether the filename carries a supported video
// extension.
func AllowedVideoFile(name string) bool {
	return allowedVideoExts[strings.ToLower(filepath.Ext(name))]
}
