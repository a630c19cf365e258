package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/archive"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
)

type jobsUC struct {
	cfg       *config.Config
	jobsRepo  jobs.Repository
	redisRepo jobs.RedisRepository
	awsRepo   jobs.AWSRepository
	logger    logger.Logger
}

func NewJobsUseCase(
	cfg *config.Config,
	jobsRepo jobs.Repository,
	redisRepo jobs.RedisRepository,
	awsRepo jobs.AWSRepository,
	log logger.Logger,
) jobs.UseCase {
	return &jobsUC{
		cfg:       cfg,
		jobsRepo:  jobsRepo,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		logger:    log,
	}
}

// CreateJob registers a job for an already-saved local upload and enqueues
// it for the worker. An empty title list falls back to the stored presets.
func (u *jobsUC) CreateJob(ctx context.Context, input *models.JobUploadInput, localPath string) (*models.ClipJob, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("CreateJob - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}

	titles := input.Titles
	if len(titles) == 0 {
		presets, err := u.jobsRepo.GetTitlePresets(ctx)
		if err != nil {
			u.logger.Warnf("CreateJob - could not load title presets, captions disabled: %v", err)
		} else {
			titles = presets
		}
	}

	job := &models.ClipJob{
		JobID:        strings.Split(uuid.New().String(), "-")[0],
		CreatorName:  input.CreatorName,
		LocalPath:    localPath,
		OutputBucket: u.cfg.S3.OutputBucket,
		Titles:       titles,
		SoundID:      input.SoundID,
		Policy:       input.Policy,
		ClipDuration: input.ClipDuration,
		TargetClips:  input.TargetClips,
		Status:       models.JobStatusQueued,
		CreatedAt:    time.Now(),
	}

	if _, err := u.jobsRepo.CreateJob(ctx, job); err != nil {
		u.logger.Errorf("CreateJob - CreateJob error: %v", err)
		return nil, err
	}
	if err := u.redisRepo.EnqueueJob(ctx, u.cfg.Redis.JobQueueKey, job); err != nil {
		u.logger.Errorf("CreateJob - EnqueueJob error: %v", err)
		return nil, fmt.Errorf("failed to queue the job: %v", err)
	}
	u.logger.Infof("[%s] job queued (creator=%s, titles=%d)", job.JobID, job.CreatorName, len(titles))
	return job, nil
}

func (u *jobsUC) GetPresignUrl(ctx context.Context, input *models.PresignInput) (string, error) {
	if input == nil {
		return "", fmt.Errorf("invalid input: input is nil")
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("GetPresignUrl - ValidateStruct error: %v", err)
		return "", err
	}

	input.BucketName = u.cfg.S3.InputBucket
	input.Key = fmt.Sprintf("uploads/%s", input.Name)

	u.logger.Infof("Generating presigned URL for key: %s", input.Key)
	url, err := u.awsRepo.GetPresignedURL(ctx, input)
	if err != nil {
		u.logger.Errorf("GetPresignUrl - GetPresignedURL error: %v", err)
		return "", fmt.Errorf("failed to generate presigned URL: %v", err)
	}
	return url, nil
}

// GetJobStatus reads the live status hash, falling back to the persisted
// job record when the hash has expired.
func (u *jobsUC) GetJobStatus(ctx context.Context, jobID string) (*models.JobStatusInfo, error) {
	if jobID == "" {
		return nil, fmt.Errorf("invalid job id: cannot be empty")
	}
	info, err := u.redisRepo.GetStatusInfo(ctx, jobID)
	if err == nil {
		return info, nil
	}

	job, pgErr := u.jobsRepo.GetJobByID(ctx, jobID)
	if pgErr != nil {
		u.logger.Errorf("GetJobStatus - job %s not in redis (%v) or postgres (%v)", jobID, err, pgErr)
		return nil, fmt.Errorf("job not found")
	}
	return &models.JobStatusInfo{JobID: job.JobID, Status: job.Status}, nil
}

// BuildZip packages a finished job's clips and returns the archive path.
func (u *jobsUC) BuildZip(ctx context.Context, jobID string) (string, error) {
	result, err := u.redisRepo.GetResult(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("job not found")
	}
	if result.Status != models.JobStatusDone && result.Status != models.JobStatusPartial {
		return "", fmt.Errorf("job not ready: status %s", result.Status)
	}
	if len(result.ClipPaths) == 0 {
		return "", fmt.Errorf("no clips to package")
	}

	zipPath := filepath.Join(result.OutputDir, fmt.Sprintf("%s_clips.zip", jobID))
	if err := archive.BuildZip(result.ClipPaths, zipPath); err != nil {
		u.logger.Errorf("BuildZip - archive error: %v", err)
		return "", err
	}
	return zipPath, nil
}

func (u *jobsUC) GetTitles(ctx context.Context) ([]string, error) {
	titles, err := u.jobsRepo.GetTitlePresets(ctx)
	if err != nil {
		u.logger.Errorf("GetTitles - GetTitlePresets error: %v", err)
		return nil, err
	}
	return titles, nil
}

func (u *jobsUC) SaveTitles(ctx context.Context, titles []string) error {
	if len(titles) == 0 {
		return fmt.Errorf("no titles provided")
	}
	if err := u.jobsRepo.ReplaceTitlePresets(ctx, titles); err != nil {
		u.logger.Errorf("SaveTitles - ReplaceTitlePresets error: %v", err)
		return err
	}
	return nil
}

func (u *jobsUC) GetSounds(ctx context.Context) []config.SoundConfig {
	return u.cfg.Clips.SoundLibrary
}
