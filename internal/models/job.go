package models

import "time"

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusPartial    JobStatus = "partial"
	JobStatusFatal      JobStatus = "fatal"
)

// ClipJob is the unit of work handed from the API to the worker over the
// Redis queue. InputS3Key is empty for jobs uploaded directly to the API,
// in which case LocalPath points at the saved upload.
type ClipJob struct {
	JobID        string    `json:"job_id" db:"job_id" redis:"job_id" validate:"omitempty"`
	CreatorName  string    `json:"creator_name" db:"creator_name" redis:"creator_name" validate:"omitempty,lte=100"`
	InputS3Key   string    `json:"input_s3_key" db:"input_s3_key" redis:"input_s3_key" validate:"omitempty"`
	InputBucket  string    `json:"input_bucket" db:"input_bucket" redis:"input_bucket" validate:"omitempty"`
	LocalPath    string    `json:"local_path" db:"local_path" redis:"local_path" validate:"omitempty"`
	OutputBucket string    `json:"output_bucket" db:"output_bucket" redis:"output_bucket" validate:"omitempty"`
	Titles       []string  `json:"titles" redis:"titles" validate:"omitempty,dive,lte=200"`
	SoundID      string    `json:"sound_id" db:"sound_id" redis:"sound_id" validate:"omitempty"`
	Policy       string    `json:"policy" db:"policy" redis:"policy" validate:"omitempty,oneof=uniform spaced"`
	ClipDuration float64   `json:"clip_duration" db:"clip_duration" redis:"clip_duration" validate:"omitempty,gt=0"`
	TargetClips  int       `json:"target_clips" db:"target_clips" redis:"target_clips" validate:"omitempty,gte=1"`
	Status       JobStatus `json:"status" db:"status" redis:"status" validate:"required"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" redis:"created_at" validate:"omitempty"`
	StartedAt    time.Time `json:"started_at" db:"started_at" redis:"started_at" validate:"omitempty"`
	CompletedAt  time.Time `json:"completed_at" db:"completed_at" redis:"completed_at" validate:"omitempty"`
}

type JobUploadInput struct {
	CreatorName  string   `json:"creator_name" form:"creator_name" validate:"omitempty,lte=100"`
	Titles       []string `json:"titles" form:"titles" validate:"omitempty,dive,lte=200"`
	SoundID      string   `json:"sound_id" form:"sound_id" validate:"omitempty"`
	Policy       string   `json:"policy" form:"policy" validate:"omitempty,oneof=uniform spaced"`
	ClipDuration float64  `json:"clip_duration" form:"clip_duration" validate:"omitempty,gt=0,lte=60"`
	TargetClips  int      `json:"target_clips" form:"target_clips" validate:"omitempty,gte=1,lte=50"`
}

type PresignInput struct {
	Name       string `json:"name" validate:"required,lte=255"`
	Size       int64  `json:"size" validate:"required,gt=0"`
	MimeType   string `json:"mime_type" validate:"required"`
	BucketName string `json:"-"`
	Key        string `json:"-"`
}

type TitlePreset struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title" validate:"required,lte=200"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
