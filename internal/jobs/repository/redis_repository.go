package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/go-redis/redis/v8"
)

type jobRedisRepo struct {
	redisClient  *redis.Client
	statusPrefix string
}

func NewJobRedisRepo(redisClient *redis.Client, statusPrefix string) jobs.RedisRepository {
	if statusPrefix == "" {
		statusPrefix = "job:status:"
	}
	return &jobRedisRepo{
		redisClient:  redisClient,
		statusPrefix: statusPrefix,
	}
}

func (r *jobRedisRepo) EnqueueJob(ctx context.Context, key string, job *models.ClipJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := r.redisClient.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return r.SetStatus(ctx, job.JobID, models.JobStatusQueued)
}

// DequeueJob blocks until a job is available. The returned job is already
// marked processing in the status hash.
func (r *jobRedisRepo) DequeueJob(ctx context.Context, key string) (*models.ClipJob, error) {
	res, err := r.redisClient.BLPop(ctx, 0*time.Second, key).Result()
	if err != nil {
		return nil, err
	}
	job := &models.ClipJob{}
	if err = json.Unmarshal([]byte(res[1]), job); err != nil {
		return nil, fmt.Errorf("error unmarshalling job: %w", err)
	}
	job.StartedAt = time.Now()
	job.Status = models.JobStatusProcessing
	if err := r.SetStatus(ctx, job.JobID, models.JobStatusProcessing); err != nil {
		return nil, fmt.Errorf("error updating job status: %w", err)
	}
	return job, nil
}

func (r *jobRedisRepo) SetStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	if err := r.redisClient.HSet(ctx, r.statusPrefix+jobID, "status", string(status)).Err(); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

func (r *jobRedisRepo) SetResult(ctx context.Context, jobID string, result *models.JobResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	errsData, err := json.Marshal(result.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal errors: %w", err)
	}

	pipe := r.redisClient.Pipeline()
	key := r.statusPrefix + jobID
	pipe.HSet(ctx, key, "status", string(result.Status))
	pipe.HSet(ctx, key, "clip_count", result.ClipCount)
	pipe.HSet(ctx, key, "errors", string(errsData))
	pipe.HSet(ctx, key, "result", string(data))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

func (r *jobRedisRepo) GetStatusInfo(ctx context.Context, jobID string) (*models.JobStatusInfo, error) {
	fields, err := r.redisClient.HGetAll(ctx, r.statusPrefix+jobID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	if len(fields) == 0 {
		return nil, redis.Nil
	}

	info := &models.JobStatusInfo{
		JobID:  jobID,
		Status: models.JobStatus(fields["status"]),
	}
	if raw, ok := fields["clip_count"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			info.ClipCount = n
		}
	}
	if raw, ok := fields["errors"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &info.Errors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal errors: %w", err)
		}
	}
	return info, nil
}

func (r *jobRedisRepo) GetResult(ctx context.Context, jobID string) (*models.JobResult, error) {
	raw, err := r.redisClient.HGet(ctx, r.statusPrefix+jobID, "result").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get job result: %w", err)
	}
	result := &models.JobResult{}
	if err := json.Unmarshal([]byte(raw), result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return result, nil
}
