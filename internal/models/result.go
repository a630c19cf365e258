package models

// ClipResult is the outcome of one planned offset: either an output path or
// a message tagged with the clip's 1-based ordinal ("Clip 3: ...").
type ClipResult struct {
	Index      int    `json:"index"`
	OutputPath string `json:"output_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (r ClipResult) OK() bool {
	return r.Error == ""
}

// JobResult is the aggregate outcome of one processing run. ClipPaths
// preserves clip ordinal order. Status is done when Errors is empty,
// partial when some clips succeeded, fatal when none did or the pipeline
// failed before any clip attempt.
type JobResult struct {
	JobID      string       `json:"job_id"`
	Status     JobStatus    `json:"status"`
	ClipCount  int          `json:"clip_count"`
	Clips      []ClipResult `json:"clips"`
	ClipPaths  []string     `json:"clip_paths"`
	Errors     []string     `json:"errors"`
	OutputDir  string       `json:"output_dir,omitempty"`
	TitlesUsed []string     `json:"titles_used,omitempty"`
	ZipS3Key   string       `json:"zip_s3_key,omitempty"`
}

type JobStatusInfo struct {
	JobID        string    `json:"job_id"`
	Status       JobStatus `json:"status"`
	ClipCount    int       `json:"clip_count"`
	Errors       []string  `json:"errors,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}
