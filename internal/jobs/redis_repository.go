package jobs

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
)

type RedisRepository interface {
	EnqueueJob(ctx context.Context, key string, job *models.ClipJob) error
	DequeueJob(ctx context.Context, key string) (*models.ClipJob, error)
	SetStatus(ctx context.Context, jobID string, status models.JobStatus) error
	SetResult(ctx context.Context, jobID string, result *models.JobResult) error
	GetStatusInfo(ctx context.Context, jobID string) (*models.JobStatusInfo, error)
	GetResult(ctx context.Context, jobID string) (*models.JobResult, error)
}
