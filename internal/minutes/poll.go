package minutes

import (
	"context"
	"time"
)

// FileState is the remote processing state of an uploaded file.
type FileState string

const (
	FileStateUnspecified FileState = "STATE_UNSPECIFIED"
	FileStateProcessing  FileState = "PROCESSING"
	FileStateActive      FileState = "ACTIVE"
	FileStateFailed      FileState = "FAILED"
)

// Progress checkpoints emitted during one run. The remote API exposes no real
// upload percentage, so polling advances a fixed schedule between
// progressUploaded and progressPollCap.
const (
	progressStart     = 0
	progressUploaded  = 10
	progressPollStep  = 5
	progressPollCap   = 65
	progressReady     = 70
	progressModel     = 75
	progressGenerate  = 80
	progressDone      = 100
	defaultPollPeriod = 2 * time.Second
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// sleepContext is the production Sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pollState is one step of the PROCESSING -> ACTIVE | FAILED machine.
type pollState struct {
	File     RemoteFile
	Progress int
}

// Done reports whether polling should stop.
func (s pollState) Done() bool {
	return s.File.State != FileStateProcessing
}

// Ready reports whether the file reached the state generation needs.
func (s pollState) Ready() bool {
	return s.File.State == FileStateActive
}

// advanceProgress moves the approximate progress one step, never past the cap.
func advanceProgress(progress int) int {
	if progress >= progressPollCap {
		return progress
	}
	next := progress + progressPollStep
	if next > progressPollCap {
		return progressPollCap
	}
	return next
}

// fetchFunc re-reads the remote file by name.
type fetchFunc func(ctx context.Context, name string) (RemoteFile, error)

// next runs one poll: it re-fetches the file and advances progress. It does
// not sleep; the caller owns the wait policy.
func (s pollState) next(ctx context.Context, fetch fetchFunc) (pollState, error) {
	file, err := fetch(ctx, s.File.Name)
	if err != nil {
		return s, err
	}
	return pollState{File: file, Progress: advanceProgress(s.Progress)}, nil
}

// poller drives pollState until a terminal state, waiting between steps.
type poller struct {
	interval time.Duration
	sleep    Sleeper
}

// wait polls until the file leaves PROCESSING. onStep is called with the
// approximate progress after every fetch.
func (p poller) wait(ctx context.Context, file RemoteFile, start int, fetch fetchFunc, onStep func(progress int)) (RemoteFile, error) {
	state := pollState{File: file, Progress: start}
	for !state.Done() {
		if err := p.sleep(ctx, p.interval); err != nil {
			return state.File, err
		}

		var err error
		state, err = state.next(ctx, fetch)
		if err != nil {
			return state.File, err
		}
		if onStep != nil {
			onStep(state.Progress)
		}
	}
	return state.File, nil
}
