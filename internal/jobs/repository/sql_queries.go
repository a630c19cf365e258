package repository

const (
	createJobQuery = `INSERT INTO clip_jobs (job_id, creator_name, input_s3_key, input_bucket, local_path,
		output_bucket, sound_id, policy, clip_duration, target_clips, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		RETURNING job_id, creator_name, input_s3_key, input_bucket, local_path, output_bucket,
		sound_id, policy, clip_duration, target_clips, status, created_at`

	updateJobStatusQuery = `UPDATE clip_jobs SET status = $2, clip_count = $3, completed_at = now()
		WHERE job_id = $1`

	getJobByIDQuery = `SELECT job_id, creator_name, input_s3_key, input_bucket, local_path, output_bucket,
		sound_id, policy, clip_duration, target_clips, status, created_at
		FROM clip_jobs WHERE job_id = $1`

	getTitlePresetsQuery = `SELECT title FROM title_presets ORDER BY position ASC`

	deleteTitlePresetsQuery = `DELETE FROM title_presets`

	insertTitlePresetQuery = `INSERT INTO title_presets (title, position, created_at) VALUES ($1, $2, now())`
)
