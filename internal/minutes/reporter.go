package minutes

import "github.com/rs/zerolog"

// Reporter receives human-readable status lines and approximate progress
// while a run is in flight. Implementations must be safe to call from the
// goroutine doing the work and are responsible for handing updates to
// whatever owns the user-facing surface.
type Reporter interface {
	ReportStatus(message string)
	ReportProgress(percent int, label string)
}

// NopReporter discards every update.
type NopReporter struct{}

// ReportStatus implements Reporter.
func (NopReporter) ReportStatus(string) {}

// ReportProgress implements Reporter.
func (NopReporter) ReportProgress(int, string) {}

// ReporterFuncs adapts two optional callbacks to Reporter.
type ReporterFuncs struct {
	Status   func(message string)
	Progress func(percent int, label string)
}

// ReportStatus implements Reporter.
func (r ReporterFuncs) ReportStatus(message string) {
	if r.Status != nil {
		r.Status(message)
	}
}

// ReportProgress implements Reporter.
func (r ReporterFuncs) ReportProgress(percent int, label string) {
	if r.Progress != nil {
		r.Progress(percent, label)
	}
}

// LogReporter writes updates to a logger. Used where no live progress
// channel to the user exists.
type LogReporter struct {
	Logger zerolog.Logger
}

// ReportStatus implements Reporter.
func (r LogReporter) ReportStatus(message string) {
	r.Logger.Info().Msg(message)
}

// ReportProgress implements Reporter.
func (r LogReporter) ReportProgress(percent int, label string) {
	r.Logger.Debug().Int("progress", percent).Msg(label)
}

// clampPercent keeps progress values inside [0,100].
func clampPercent(percent int) int {
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}
