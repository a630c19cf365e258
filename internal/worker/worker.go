package worker

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/pkg/archive"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
)

const cpuBackoff = 5 * time.Second

// Worker drains the clip-job queue. Each goroutine handles one job at a
// time; the pipeline itself runs clips sequentially.
type Worker struct {
	cfg       *config.Config
	logger    logger.Logger
	redisRepo jobs.RedisRepository
	awsRepo   jobs.AWSRepository
	jobsRepo  jobs.Repository
	pipeline  *pipeline.Pipeline
	wg        sync.WaitGroup
}

func NewWorker(
	cfg *config.Config,
	log logger.Logger,
	redisRepo jobs.RedisRepository,
	awsRepo jobs.AWSRepository,
	jobsRepo jobs.Repository,
	pl *pipeline.Pipeline,
) *Worker {
	return &Worker{
		cfg:       cfg,
		logger:    log,
		redisRepo: redisRepo,
		awsRepo:   awsRepo,
		jobsRepo:  jobsRepo,
		pipeline:  pl,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Infof("Starting %d workers", w.cfg.Worker.WorkerCount)
	for i := 0; i < w.cfg.Worker.WorkerCount; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("worker %d stopping", id)
			return
		default:
		}

		if canAcceptJob, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !canAcceptJob {
			w.logger.Infof("worker %d: CPU usage is high: %.1f, backing off", id, usage)
			select {
			case <-ctx.Done():
				return
			case <-time.After(cpuBackoff):
			}
			continue
		}

		job, err := w.redisRepo.DequeueJob(ctx, w.cfg.Redis.JobQueueKey)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Errorf("worker %d: dequeue error: %v", id, err)
			continue
		}

		w.logger.Infof("worker %d: picked up job %s", id, job.JobID)
		if err := w.processJob(ctx, job); err != nil {
			w.logger.Errorf("worker %d: job %s failed: %v", id, job.JobID, err)
		}
	}
}

// processJob resolves the input and sound, runs the pipeline, packages the
// clips and publishes the result. The job's status is always written, even
// on a fatal pipeline error.
func (w *Worker) processJob(ctx context.Context, job *models.ClipJob) error {
	tempDir, err := os.MkdirTemp(w.cfg.Worker.TempDir, fmt.Sprintf("job_%s_", job.JobID))
	if err != nil {
		w.publishFatal(ctx, job, fmt.Sprintf("create temp dir: %v", err))
		return err
	}
	defer os.RemoveAll(tempDir)

	inputPath, err := w.resolveInput(ctx, job, tempDir)
	if err != nil {
		w.publishFatal(ctx, job, fmt.Sprintf("resolve input: %v", err))
		return err
	}

	result, runErr := w.pipeline.Run(ctx, pipeline.Params{
		JobID:        job.JobID,
		InputPath:    inputPath,
		OutputDir:    filepath.Join(w.cfg.Worker.OutputDir, job.JobID),
		Titles:       job.Titles,
		SoundPath:    w.resolveSound(job.SoundID),
		Policy:       clips.Policy(job.Policy),
		ClipDuration: job.ClipDuration,
		TargetClips:  job.TargetClips,
	})
	if runErr != nil {
		w.logger.Errorf("[%s] pipeline aborted: %v", job.JobID, runErr)
	}

	if result.ClipCount > 0 && job.OutputBucket != "" {
		zipPath := filepath.Join(result.OutputDir, "clips.zip")
		if err := archive.BuildZip(result.ClipPaths, zipPath); err != nil {
			w.logger.Errorf("[%s] zip build failed: %v", job.JobID, err)
			result.Errors = append(result.Errors, fmt.Sprintf("zip: %v", err))
		} else {
			key := fmt.Sprintf("results/%s/clips.zip", job.JobID)
			if err := w.awsRepo.UploadFile(ctx, job.OutputBucket, key, zipPath); err != nil {
				w.logger.Errorf("[%s] zip upload failed: %v", job.JobID, err)
				result.Errors = append(result.Errors, fmt.Sprintf("upload: %v", err))
			} else {
				result.ZipS3Key = key
			}
		}
	}

	if err := w.redisRepo.SetResult(ctx, job.JobID, result); err != nil {
		w.logger.Errorf("[%s] failed to store result: %v", job.JobID, err)
	}
	if err := w.jobsRepo.UpdateJobStatus(ctx, job.JobID, result.Status, result.ClipCount); err != nil {
		w.logger.Errorf("[%s] failed to update job record: %v", job.JobID, err)
	}

	// Consumed inputs are no longer needed.
	if job.LocalPath != "" {
		os.Remove(job.LocalPath)
	}
	if job.InputS3Key != "" {
		bucket := job.InputBucket
		if bucket == "" {
			bucket = w.cfg.S3.InputBucket
		}
		if err := w.awsRepo.RemoveObject(ctx, bucket, job.InputS3Key); err != nil {
			w.logger.Warnf("[%s] could not remove source object %s: %v", job.JobID, job.InputS3Key, err)
		}
	}

	w.logger.Infof("[%s] finished: status=%s clips=%d", job.JobID, result.Status, result.ClipCount)
	return runErr
}

// resolveInput returns a readable local path for the job's source video,
// downloading from S3 when the job was created against a presigned upload.
func (w *Worker) resolveInput(ctx context.Context, job *models.ClipJob, tempDir string) (string, error) {
	if job.LocalPath != "" {
		if _, err := os.Stat(job.LocalPath); err != nil {
			return "", fmt.Errorf("local upload missing: %w", err)
		}
		return job.LocalPath, nil
	}
	if job.InputS3Key == "" {
		return "", fmt.Errorf("job has neither a local path nor an S3 key")
	}

	localPath := filepath.Join(tempDir, filepath.Base(job.InputS3Key))
	bucket := job.InputBucket
	if bucket == "" {
		bucket = w.cfg.S3.InputBucket
	}
	if err := w.awsRepo.DownloadToFile(ctx, bucket, job.InputS3Key, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

// resolveSound maps a sound id to a file under the sounds dir. An empty id
// picks a random library entry; an unknown id or empty library means no
// background music.
func (w *Worker) resolveSound(soundID string) string {
	library := w.cfg.Clips.SoundLibrary
	if len(library) == 0 {
		return ""
	}
	if soundID == "" {
		return filepath.Join(w.cfg.Clips.SoundsDir, library[rand.Intn(len(library))].File)
	}
	for _, s := range library {
		if s.ID == soundID {
			return filepath.Join(w.cfg.Clips.SoundsDir, s.File)
		}
	}
	w.logger.Warnf("unknown sound id %q, proceeding without music", soundID)
	return ""
}

func (w *Worker) publishFatal(ctx context.Context, job *models.ClipJob, msg string) {
	result := &models.JobResult{
		JobID:  job.JobID,
		Status: models.JobStatusFatal,
		Errors: []string{msg},
	}
	if err := w.redisRepo.SetResult(ctx, job.JobID, result); err != nil {
		w.logger.Errorf("[%s] failed to store fatal result: %v", job.JobID, err)
	}
	if err := w.jobsRepo.UpdateJobStatus(ctx, job.JobID, models.JobStatusFatal, 0); err != nil {
		w.logger.Errorf("[%s] failed to update job record: %v", job.JobID, err)
	}
}
