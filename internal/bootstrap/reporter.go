package bootstrap

import (
	"meeting-minutes/internal/jobs"
)

// eventReporter turns client progress callbacks into job events.
type eventReporter struct {
	app   *App
	jobID string
}

// ReportStatus publishes a status line for the run.
func (r eventReporter) ReportStatus(message string) {
	r.app.publishEvent(jobs.Event{
		JobID:   r.jobID,
		Type:    jobs.EventTypeStatus,
		Status:  r.app.Jobs.Current().Status,
		Message: message,
	})
}

// ReportProgress publishes a progress update for the run.
func (r eventReporter) ReportProgress(percent int, label string) {
	r.app.publishEvent(jobs.Event{
		JobID:    r.jobID,
		Type:     jobs.EventTypeProgress,
		Progress: percent,
		Label:    label,
	})
}
