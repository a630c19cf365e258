package jobs

import (
	"context"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/models"
)

type UseCase interface {
	CreateJob(ctx context.Context, input *models.JobUploadInput, localPath string) (*models.ClipJob, error)
	GetPresignUrl(ctx context.Context, input *models.PresignInput) (string, error)
	GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusInfo, error)
	BuildZip(ctx context.Context, jobID string) (string, error)
	GetTitles(ctx context.Context) ([]string, error)
	SaveTitles(ctx context.Context, titles []string) error
	GetSounds(ctx context.Context) []config.SoundConfig
}
