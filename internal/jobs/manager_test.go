package jobs

import (
	"sync"
	"testing"

	"meeting-minutes/internal/domain"
)

// TestManagerLifecycle verifies normal progression to done state.
func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	if m.IsRunning() {
		t.Fatal("new manager should be idle")
	}

	if err := m.Start("job-1", "/tmp/meeting.mp3"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !m.IsRunning() {
		t.Fatal("expected running after start")
	}

	for _, status := range []domain.JobStatus{
		domain.JobStatusProcessing,
		domain.JobStatusGenerating,
		domain.JobStatusDone,
	} {
		if err := m.Transition(status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	current := m.Current()
	if current.Status != domain.JobStatusDone {
		t.Fatalf("current status = %s, want done", current.Status)
	}
	if current.SourcePath != "/tmp/meeting.mp3" {
		t.Fatalf("source = %q", current.SourcePath)
	}
	if m.IsRunning() {
		t.Fatal("done job must not count as running")
	}
}

// TestManagerRejectsInvalidTransition checks state machine constraints.
func TestManagerRejectsInvalidTransition(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1", "a.mp3"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := m.Transition(domain.JobStatusDone); err == nil {
		t.Fatal("expected invalid transition error")
	}
}

// TestManagerStartIsExclusive checks only one concurrent start wins.
func TestManagerStartIsExclusive(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Start("job", "a.mp3"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if err != ErrJobAlreadyRunning {
				t.Errorf("start error = %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
}

// TestManagerRestartAfterFailure checks a failed run frees the slot.
func TestManagerRestartAfterFailure(t *testing.T) {
	m := NewManager()
	if err := m.Start("job-1", "a.mp3"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Transition(domain.JobStatusFailed); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if err := m.Start("job-2", "a.mp3"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if m.Current().ID != "job-2" {
		t.Fatalf("id = %q, want job-2", m.Current().ID)
	}
}
