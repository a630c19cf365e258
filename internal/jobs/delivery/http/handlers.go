package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type jobsHandler struct {
	cfg    *config.Config
	jobsUC jobs.UseCase
	logger logger.Logger
}

func NewJobsHandler(cfg *config.Config, jobsUC jobs.UseCase, log logger.Logger) jobs.Handlers {
	return &jobsHandler{
		cfg:    cfg,
		jobsUC: jobsUC,
		logger: log,
	}
}

// UploadJob accepts a multipart video upload plus job options and queues a
// clip job. Titles may be sent as repeated "titles" form fields.
func (h *jobsHandler) UploadJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.JobUploadInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}

		fileHeader, err := c.FormFile("video")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing video file"})
		}
		if !utils.AllowedVideoFile(fileHeader.Filename) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported video format"})
		}
		if h.cfg.Server.MaxUploadMB > 0 && fileHeader.Size > h.cfg.Server.MaxUploadMB<<20 {
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "File too large"})
		}

		localPath, err := h.saveUpload(fileHeader)
		if err != nil {
			h.logger.Errorf("UploadJob - saveUpload error: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
		}

		job, err := h.jobsUC.CreateJob(c.Request().Context(), input, localPath)
		if err != nil {
			os.Remove(localPath)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, job)
	}
}

func (h *jobsHandler) saveUpload(fileHeader *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.cfg.Server.UploadDir, 0o755); err != nil {
		return "", err
	}
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	localPath := filepath.Join(h.cfg.Server.UploadDir, fmt.Sprintf("%s%s", uuid.New().String(), ext))
	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(localPath)
		return "", err
	}
	return localPath, nil
}

func (h *jobsHandler) PresignUpload() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.PresignInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		presignUrl, err := h.jobsUC.GetPresignUrl(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"presignUrl": presignUrl, "key": input.Key})
	}
}

func (h *jobsHandler) GetJobStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		info, err := h.jobsUC.GetJobStatus(c.Request().Context(), jobID)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, info)
	}
}

// DownloadClips streams a zip of the finished clips back to the caller.
func (h *jobsHandler) DownloadClips() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		zipPath, err := h.jobsUC.BuildZip(c.Request().Context(), jobID)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.Attachment(zipPath, fmt.Sprintf("%s_clips.zip", jobID))
	}
}

func (h *jobsHandler) GetTitles() echo.HandlerFunc {
	return func(c echo.Context) error {
		titles, err := h.jobsUC.GetTitles(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string][]string{"titles": titles})
	}
}

func (h *jobsHandler) SaveTitles() echo.HandlerFunc {
	return func(c echo.Context) error {
		var body struct {
			Titles []string `json:"titles"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		if err := h.jobsUC.SaveTitles(c.Request().Context(), body.Titles); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Titles saved"})
	}
}

func (h *jobsHandler) GetSounds() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"sounds": h.jobsUC.GetSounds(c.Request().Context())})
	}
}
