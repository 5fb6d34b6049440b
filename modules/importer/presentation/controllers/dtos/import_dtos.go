package dtos

// SubmitRequest carries the upload parameters extracted from the multipart
// request.
type SubmitRequest struct {
	Kind     string `validate:"required"`
	Filename string `validate:"required"`
}

// SubmitResponse is the synchronous answer to an upload. Error is set only
// when the upload was rejected and no job exists.
type SubmitResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type JobError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type JobRowDetail struct {
	RowKey  string `json:"row_key"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}

// JobStatusResponse is the polling payload. Progress is whole percent;
// counts always satisfy imported+updated+skipped == processed.
type JobStatusResponse struct {
	Status     string         `json:"status"`
	Progress   int            `json:"progress"`
	TotalRows  int            `json:"total_rows"`
	Processed  int            `json:"processed"`
	Imported   int            `json:"imported"`
	Updated    int            `json:"updated"`
	Skipped    int            `json:"skipped"`
	Errors     []JobError     `json:"errors"`
	Details    []JobRowDetail `json:"details"`
	StartedAt  string         `json:"started_at,omitempty"`
	FinishedAt string         `json:"finished_at,omitempty"`
}
