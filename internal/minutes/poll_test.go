package minutes

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestAdvanceProgressStopsBelowReady checks the approximation never reaches 70.
func TestAdvanceProgressStopsBelowReady(t *testing.T) {
	progress := progressUploaded
	for i := 0; i < 100; i++ {
		next := advanceProgress(progress)
		if next < progress {
			t.Fatalf("advanceProgress(%d) = %d, went backwards", progress, next)
		}
		progress = next
	}
	if progress != progressPollCap {
		t.Fatalf("progress = %d, want cap %d", progress, progressPollCap)
	}
	if progressPollCap >= progressReady {
		t.Fatalf("poll cap %d must stay below ready %d", progressPollCap, progressReady)
	}
}

// TestPollStateNextIsPure checks one step without any waiting.
func TestPollStateNextIsPure(t *testing.T) {
	state := pollState{File: RemoteFile{Name: "files/x", State: FileStateProcessing}, Progress: 10}
	next, err := state.next(context.Background(), func(ctx context.Context, name string) (RemoteFile, error) {
		if name != "files/x" {
			t.Fatalf("fetch name = %q", name)
		}
		return RemoteFile{Name: name, State: FileStateActive}, nil
	})
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !next.Done() || !next.Ready() || next.Progress != 15 {
		t.Fatalf("next = %+v", next)
	}
}

// TestPollerWaitUsesSleeperInterval checks the wait policy is injected.
func TestPollerWaitUsesSleeperInterval(t *testing.T) {
	var waits []time.Duration
	p := poller{
		interval: 3 * time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}
	calls := 0
	fetch := func(ctx context.Context, name string) (RemoteFile, error) {
		calls++
		if calls < 2 {
			return RemoteFile{Name: name, State: FileStateProcessing}, nil
		}
		return RemoteFile{Name: name, State: FileStateFailed}, nil
	}
	var steps []int

	file, err := p.wait(context.Background(), RemoteFile{Name: "f", State: FileStateProcessing}, 10, fetch, func(progress int) {
		steps = append(steps, progress)
	})
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if file.State != FileStateFailed {
		t.Fatalf("state = %s, want FAILED", file.State)
	}
	if len(waits) != 2 || waits[0] != 3*time.Second {
		t.Fatalf("waits = %v", waits)
	}
	if len(steps) != 2 || steps[0] != 15 || steps[1] != 20 {
		t.Fatalf("steps = %v", steps)
	}
}

// TestPollerWaitSkipsWhenAlreadyActive checks no wait for ready uploads.
func TestPollerWaitSkipsWhenAlreadyActive(t *testing.T) {
	p := poller{
		interval: time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			t.Fatal("sleep must not be called")
			return nil
		},
	}
	file, err := p.wait(context.Background(), RemoteFile{Name: "f", State: FileStateActive}, 10, nil, nil)
	if err != nil || file.State != FileStateActive {
		t.Fatalf("wait = %+v, %v", file, err)
	}
}

// TestPollerWaitKeepsHandleOnFetchError checks the handle survives for cleanup.
func TestPollerWaitKeepsHandleOnFetchError(t *testing.T) {
	p := poller{sleep: func(ctx context.Context, d time.Duration) error { return nil }}
	fetchErr := errors.New("network down")

	file, err := p.wait(context.Background(), RemoteFile{Name: "files/keep", State: FileStateProcessing}, 10,
		func(ctx context.Context, name string) (RemoteFile, error) { return RemoteFile{}, fetchErr }, nil)

	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want %v", err, fetchErr)
	}
	if file.Name != "files/keep" {
		t.Fatalf("file name = %q, want files/keep", file.Name)
	}
}

// TestSleepContextHonorsCancel checks the production sleeper.
func TestSleepContextHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
