package jobs

import (
	"errors"
	"fmt"
	"sync"

	"meeting-minutes/internal/domain"
)

// ErrJobAlreadyRunning is returned when starting a second active run.
var ErrJobAlreadyRunning = errors.New("generation already running")

// Manager tracks the single allowed active run and its transitions.
type Manager struct {
	mu      sync.RWMutex
	current domain.Job
}

// NewManager creates a manager in idle state.
func NewManager() *Manager {
	return &Manager{
		current: domain.Job{
			Status: domain.JobStatusIdle,
		},
	}
}

// Start claims the single run slot and moves it to uploading state.
func (m *Manager) Start(jobID, sourcePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if isRunning(m.current.Status) {
		return ErrJobAlreadyRunning
	}

	m.current = domain.Job{
		ID:         jobID,
		SourcePath: sourcePath,
		Status:     domain.JobStatusUploading,
	}
	return nil
}

// Transition validates and applies state transitions for current run.
func (m *Manager) Transition(status domain.JobStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.ID == "" && status != domain.JobStatusIdle {
		return fmt.Errorf("cannot transition without an active job")
	}
	if status == m.current.Status {
		return nil
	}
	if !isValidTransition(m.current.Status, status) {
		return fmt.Errorf("invalid transition: %s -> %s", m.current.Status, status)
	}

	m.current.Status = status
	return nil
}

// Current returns a snapshot of the current run.
func (m *Manager) Current() domain.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reset clears run metadata and returns manager to idle.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = domain.Job{Status: domain.JobStatusIdle}
}

// IsRunning reports whether the current state is an active stage.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return isRunning(m.current.Status)
}

// isRunning checks if a status represents an in-flight run.
func isRunning(status domain.JobStatus) bool {
	switch status {
	case domain.JobStatusUploading, domain.JobStatusProcessing, domain.JobStatusGenerating:
		return true
	default:
		return false
	}
}

// isValidTransition enforces the allowed run state machine edges.
func isValidTransition(from, to domain.JobStatus) bool {
	switch from {
	case domain.JobStatusIdle:
		return to == domain.JobStatusUploading
	case domain.JobStatusUploading:
		return to == domain.JobStatusProcessing || to == domain.JobStatusFailed
	case domain.JobStatusProcessing:
		return to == domain.JobStatusGenerating || to == domain.JobStatusFailed
	case domain.JobStatusGenerating:
		return to == domain.JobStatusDone || to == domain.JobStatusFailed
	case domain.JobStatusDone, domain.JobStatusFailed:
		return to == domain.JobStatusUploading || to == domain.JobStatusIdle
	default:
		return false
	}
}
