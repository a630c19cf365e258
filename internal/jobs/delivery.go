package jobs

import "github.com/labstack/echo/v4"

type Handlers interface {
	UploadJob() echo.HandlerFunc
	PresignUpload() echo.HandlerFunc
	GetJobStatus() echo.HandlerFunc
	DownloadClips() echo.HandlerFunc
	GetTitles() echo.HandlerFunc
	SaveTitles() echo.HandlerFunc
	GetSounds() echo.HandlerFunc
}
