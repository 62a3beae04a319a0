package domain

// JobStatus tracks each stage of a single minutes generation run.
type JobStatus string

const (
	JobStatusIdle       JobStatus = "idle"
	JobStatusUploading  JobStatus = "uploading"
	JobStatusProcessing JobStatus = "processing"
	JobStatusGenerating JobStatus = "generating"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// Job stores the current run identity, its source file and lifecycle status.
type Job struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"sourcePath,omitempty"`
	Status     JobStatus `json:"status"`
}

// ModelOption describes one selectable generation model.
type ModelOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
	Selected    bool   `json:"selected"`
}

// UIState is the snapshot the desktop frontend renders its controls from.
type UIState struct {
	SelectedFile  string `json:"selectedFile"`
	HasCredential bool   `json:"hasCredential"`
	Processing    bool   `json:"processing"`
	CanBrowse     bool   `json:"canBrowse"`
	CanRun        bool   `json:"canRun"`
	HasResult     bool   `json:"hasResult"`
	Progress      int    `json:"progress"`
	Model         string `json:"model"`
}
