// Package bootstrap wires the desktop front-end: a Wails window bound to the
// minutes client, native dialogs and the run event stream.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"meeting-minutes/internal/config"
	"meeting-minutes/internal/diagnostics"
	"meeting-minutes/internal/domain"
	"meeting-minutes/internal/jobs"
	"meeting-minutes/internal/logger"
	"meeting-minutes/internal/media"
	"meeting-minutes/internal/minutes"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var (
	// ErrNoFileSelected is returned when a run is requested before browsing.
	ErrNoFileSelected = errors.New("no file selected")
	// ErrNoCredential is returned when the API key is missing.
	ErrNoCredential = errors.New("API key is not configured")
	// ErrNoResult is returned when saving before a run succeeded.
	ErrNoResult = errors.New("no minutes to save")
)

var mediaDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Audio/Video files",
		Pattern:     media.DialogPattern(),
	},
	{
		DisplayName: "All files",
		Pattern:     "*.*",
	},
}

var saveDialogFilter = []wailsruntime.FileFilter{
	{DisplayName: "Markdown", Pattern: "*.md"},
	{DisplayName: "Text", Pattern: "*.txt"},
	{DisplayName: "All files", Pattern: "*.*"},
}

// generator is the minutes client as seen by the app.
type generator interface {
	GenerateMinutes(ctx context.Context, req minutes.Request) string
}

// App wires configuration, the run guard, the minutes client and the UI runtime.
type App struct {
	Config      config.Config
	Jobs        *jobs.Manager
	Generator   generator
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	log         zerolog.Logger
	prompt      string

	mu           sync.Mutex
	ui           desktopUI
	events       *jobs.EventBus
	selectedFile string
	model        string
	result       string
	resultSource string
}

// New builds the application serving frontend files from disk.
func New() (*App, error) {
	return NewWithAssets(nil)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	prompt, err := cfg.Prompt()
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}

	log := logger.New(cfg.Logging, "minutes-desktop")
	client := minutes.NewClient(
		minutes.NewGeminiFactory(),
		minutes.WithCredential(func() string { return cfg.GoogleAPIKey }),
		minutes.WithPollInterval(cfg.PollInterval),
		minutes.WithLogger(logger.Component(log, "minutes")),
	)

	report := diagnostics.NewChecker().Run(diagnostics.Settings{
		Credential: cfg.GoogleAPIKey,
		Model:      cfg.Model,
	})

	return &App{
		Config:      cfg,
		Jobs:        jobs.NewManager(),
		Generator:   client,
		Diagnostics: report,
		assets:      assets,
		log:         logger.Component(log, "desktop"),
		prompt:      prompt,
		events:      jobs.NewEventBus(1000),
		model:       cfg.Model,
	}, nil
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Meeting Minutes Generator",
		Width:       640,
		Height:      420,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnDomReady:  a.DomReady,
		OnShutdown: func(ctx context.Context) {
			a.mu.Lock()
			defer a.mu.Unlock()
			a.ui = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores the Wails runtime for dialogs and push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ui = wailsUI{ctx: ctx}
}

// DomReady warns once when the API key is missing.
func (a *App) DomReady(context.Context) {
	if a.hasCredential() {
		return
	}
	a.message(wailsruntime.WarningDialog, "API key not set",
		fmt.Sprintf("Set the environment variable %s.\nGeneration fails without it.", minutes.CredentialEnv))
}

// GetState returns the snapshot the frontend renders its controls from.
func (a *App) GetState() domain.UIState {
	processing := a.Jobs.IsRunning()
	hasCredential := a.hasCredential()

	a.mu.Lock()
	defer a.mu.Unlock()
	return domain.UIState{
		SelectedFile:  a.selectedFile,
		HasCredential: hasCredential,
		Processing:    processing,
		CanBrowse:     !processing,
		CanRun:        !processing && hasCredential && a.selectedFile != "",
		HasResult:     a.result != "",
		Progress:      a.events.LastProgress(),
		Model:         a.model,
	}
}

// GetDiagnostics returns the startup diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	return a.Diagnostics
}

// BrowseFile opens the media picker and remembers the chosen file.
func (a *App) BrowseFile() (string, error) {
	if a.Jobs.IsRunning() {
		return "", nil
	}
	ui, err := a.runtimeUI()
	if err != nil {
		return "", err
	}

	path, err := ui.OpenFile(wailsruntime.OpenDialogOptions{
		Title:   "Select audio/video file",
		Filters: mediaDialogFilter,
	})
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	a.mu.Lock()
	a.selectedFile = path
	a.mu.Unlock()

	a.publishProgress("", 0, "")
	a.publishStatus("", "", "File selected: "+filepath.Base(path))
	return path, nil
}

// StartGeneration creates a job and runs the minutes client asynchronously.
func (a *App) StartGeneration() (domain.Job, error) {
	if a.Jobs.IsRunning() {
		return domain.Job{}, jobs.ErrJobAlreadyRunning
	}

	a.mu.Lock()
	path := a.selectedFile
	model := a.model
	a.mu.Unlock()

	if path == "" {
		a.message(wailsruntime.WarningDialog, "No file selected", "Select an audio or video file.")
		return domain.Job{}, ErrNoFileSelected
	}
	if !a.hasCredential() {
		a.message(wailsruntime.ErrorDialog, "API key error",
			fmt.Sprintf("Environment variable %s is not set.\nSet it before running.", minutes.CredentialEnv))
		return domain.Job{}, ErrNoCredential
	}

	jobID := uuid.NewString()
	if err := a.Jobs.Start(jobID, path); err != nil {
		return domain.Job{}, err
	}

	a.publishStatus(jobID, domain.JobStatusUploading, "Processing started...")
	a.publishProgress(jobID, 0, "Start")

	go a.runGeneration(jobID, path, model)
	return a.Jobs.Current(), nil
}

// ShowError shows a blocking error dialog; the frontend calls it on error events.
func (a *App) ShowError(message string) error {
	ui, err := a.runtimeUI()
	if err != nil {
		return err
	}
	return ui.Message(wailsruntime.ErrorDialog, "Error", message)
}

// SaveResult asks where to store the last minutes and writes them there.
func (a *App) SaveResult() (string, error) {
	a.mu.Lock()
	text := a.result
	source := a.resultSource
	a.mu.Unlock()

	if text == "" {
		return "", ErrNoResult
	}
	ui, err := a.runtimeUI()
	if err != nil {
		return "", err
	}

	path, err := ui.SaveFile(wailsruntime.SaveDialogOptions{
		Title:            "Save minutes",
		DefaultDirectory: filepath.Dir(source),
		DefaultFilename:  media.SuggestedSaveName(source),
		Filters:          saveDialogFilter,
	})
	if err != nil {
		return "", err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		a.publishStatus("", "", "Save cancelled")
		a.publishProgress("", 0, "")
		return "", nil
	}
	if filepath.Ext(path) == "" {
		path += ".md"
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("save minutes failed")
		a.publishStatus("", "", "Could not save the file.")
		a.publishProgress("", 0, "Save error")
		_ = ui.Message(wailsruntime.ErrorDialog, "Save error", fmt.Sprintf("Could not save the file:\n%v", err))
		return "", fmt.Errorf("save minutes: %w", err)
	}

	a.publishEvent(jobs.Event{
		Type:      jobs.EventTypeStatus,
		Message:   "Saved minutes: " + filepath.Base(path),
		SavedPath: path,
	})
	a.publishProgress("", 100, "Saved")
	_ = ui.Message(wailsruntime.InfoDialog, "Saved", "Minutes saved:\n"+path)
	return path, nil
}

// CurrentJob returns current job metadata and status.
func (a *App) CurrentJob() domain.Job {
	return a.Jobs.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// runGeneration executes one client run and maps the outcome to terminal events.
func (a *App) runGeneration(jobID, path, model string) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Str("job_id", jobID).Msg("generation crashed")
			a.fail(jobID, fmt.Sprintf("%sunexpected failure: %v", minutes.ErrorPrefix, r))
		}
	}()

	req := minutes.Request{
		FilePath: path,
		Model:    model,
		Prompt:   a.prompt,
		Reporter: eventReporter{app: a, jobID: jobID},
		OnStage: func(stage minutes.Stage) {
			status, ok := mapStageToStatus(stage)
			if !ok {
				return
			}
			if err := a.Jobs.Transition(status); err != nil {
				a.log.Warn().Err(err).Str("job_id", jobID).Msg("stage transition rejected")
			}
		},
	}

	text := a.Generator.GenerateMinutes(context.Background(), req)
	if minutes.IsError(text) {
		a.fail(jobID, text)
		return
	}

	a.mu.Lock()
	a.result = text
	a.resultSource = path
	a.mu.Unlock()

	if err := a.Jobs.Transition(domain.JobStatusDone); err != nil {
		a.log.Warn().Err(err).Str("job_id", jobID).Msg("done transition rejected")
	}
	a.publishEvent(jobs.Event{
		JobID:      jobID,
		Type:       jobs.EventTypeResult,
		Status:     domain.JobStatusDone,
		Message:    "Minutes generated",
		Progress:   100,
		SourcePath: path,
	})
}

// fail marks the run failed and publishes the error marker for the frontend.
func (a *App) fail(jobID, marker string) {
	if err := a.Jobs.Transition(domain.JobStatusFailed); err != nil {
		a.log.Warn().Err(err).Str("job_id", jobID).Msg("failed transition rejected")
	}
	a.publishStatus(jobID, domain.JobStatusFailed, "An error occurred.")
	a.publishProgress(jobID, 0, "Error")
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeError,
		Status:  domain.JobStatusFailed,
		Message: marker,
	})
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(jobID string, status domain.JobStatus, message string) {
	a.publishEvent(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishProgress sends a progress event.
func (a *App) publishProgress(jobID string, percent int, label string) {
	a.publishEvent(jobs.Event{
		JobID:    jobID,
		Type:     jobs.EventTypeProgress,
		Progress: percent,
		Label:    label,
	})
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event jobs.Event) {
	published := a.events.Publish(event)

	a.mu.Lock()
	ui := a.ui
	a.mu.Unlock()
	if ui != nil {
		ui.Emit(jobEventName, published)
	}
}

// message shows a dialog when the runtime is up and logs it otherwise.
func (a *App) message(kind wailsruntime.DialogType, title, text string) {
	ui, err := a.runtimeUI()
	if err != nil {
		a.log.Warn().Str("title", title).Msg(text)
		return
	}
	if err := ui.Message(kind, title, text); err != nil {
		a.log.Warn().Err(err).Str("title", title).Msg("dialog failed")
	}
}

// hasCredential reports whether an API key was configured at startup.
func (a *App) hasCredential() bool {
	return a.Config.HasCredential()
}

// mapStageToStatus maps client stage names to job statuses.
func mapStageToStatus(stage minutes.Stage) (domain.JobStatus, bool) {
	switch stage {
	case minutes.StageUploading:
		return domain.JobStatusUploading, true
	case minutes.StageProcessing:
		return domain.JobStatusProcessing, true
	case minutes.StageGenerating:
		return domain.JobStatusGenerating, true
	default:
		return "", false
	}
}

// runtimeUI returns the current Wails runtime for dialog APIs.
func (a *App) runtimeUI() (desktopUI, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ui == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}
	return a.ui, nil
}
