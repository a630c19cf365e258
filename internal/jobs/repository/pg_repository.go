package repository

import (
	"context"

	"github.com/clipforge/clipforge/internal/jobs"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type jobsRepo struct {
	db *sqlx.DB
}

func NewJobsRepo(db *sqlx.DB) jobs.Repository {
	return &jobsRepo{db: db}
}

func (r *jobsRepo) CreateJob(ctx context.Context, job *models.ClipJob) (*models.ClipJob, error) {
	created := &models.ClipJob{}
	if err := r.db.QueryRowxContext(ctx, createJobQuery,
		job.JobID,
		job.CreatorName,
		job.InputS3Key,
		job.InputBucket,
		job.LocalPath,
		job.OutputBucket,
		job.SoundID,
		job.Policy,
		job.ClipDuration,
		job.TargetClips,
		job.Status,
	).StructScan(created); err != nil {
		return nil, errors.Wrap(err, "jobsRepo.CreateJob.StructScan")
	}
	return created, nil
}

func (r *jobsRepo) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, clipCount int) error {
	if _, err := r.db.ExecContext(ctx, updateJobStatusQuery, jobID, status, clipCount); err != nil {
		return errors.Wrap(err, "jobsRepo.UpdateJobStatus.Exec")
	}
	return nil
}

func (r *jobsRepo) GetJobByID(ctx context.Context, jobID string) (*models.ClipJob, error) {
	job := &models.ClipJob{}
	if err := r.db.GetContext(ctx, job, getJobByIDQuery, jobID); err != nil {
		return nil, errors.Wrap(err, "jobsRepo.GetJobByID.Get")
	}
	return job, nil
}

func (r *jobsRepo) GetTitlePresets(ctx context.Context) ([]string, error) {
	var titles []string
	if err := r.db.SelectContext(ctx, &titles, getTitlePresetsQuery); err != nil {
		return nil, errors.Wrap(err, "jobsRepo.GetTitlePresets.Select")
	}
	return titles, nil
}

// ReplaceTitlePresets swaps the full preset list in one transaction so a
// concurrent reader never observes a half-written pool.
func (r *jobsRepo) ReplaceTitlePresets(ctx context.Context, titles []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "jobsRepo.ReplaceTitlePresets.Begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteTitlePresetsQuery); err != nil {
		return errors.Wrap(err, "jobsRepo.ReplaceTitlePresets.Delete")
	}
	for i, title := range titles {
		if _, err := tx.ExecContext(ctx, insertTitlePresetQuery, title, i); err != nil {
			return errors.Wrap(err, "jobsRepo.ReplaceTitlePresets.Insert")
		}
	}
	return tx.Commit()
}
