package jobs

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
)

type Repository interface {
	CreateJob(ctx context.Context, job *models.ClipJob) (*models.ClipJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, clipCount int) error
	GetJobByID(ctx context.Context, jobID string) (*models.ClipJob, error)
	GetTitlePresets(ctx context.Context) ([]string, error)
	ReplaceTitlePresets(ctx context.Context, titles []string) error
}
