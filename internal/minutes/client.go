// Package minutes turns a local audio/video file into Markdown meeting minutes
// by uploading it to a remote generative model, waiting for the remote copy
// to become usable and asking the model for structured minutes.
package minutes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"meeting-minutes/internal/media"
)

// CredentialEnv names the environment variable holding the API key.
const CredentialEnv = "GOOGLE_API_KEY"

// RemoteFile is the handle of a file held by the remote service.
type RemoteFile struct {
	Name     string
	URI      string
	MIMEType string
	State    FileState
}

// Remote is the subset of the remote generative API a run needs.
type Remote interface {
	Upload(ctx context.Context, path, mimeType string) (RemoteFile, error)
	Get(ctx context.Context, name string) (RemoteFile, error)
	Delete(ctx context.Context, name string) error
	Generate(ctx context.Context, model string, file RemoteFile, prompt string) (string, error)
}

// RemoteFactory configures a Remote for one API key.
type RemoteFactory func(ctx context.Context, apiKey string) (Remote, error)

// Stage names the externally visible phases of a run.
type Stage string

const (
	StageUploading  Stage = "uploading"
	StageProcessing Stage = "processing"
	StageGenerating Stage = "generating"
)

// Request describes one minutes generation run.
type Request struct {
	FilePath string
	MIMEType string
	Model    string
	Prompt   string
	Reporter Reporter
	OnStage  func(stage Stage)
}

// Client runs the upload, poll, generate and cleanup sequence.
type Client struct {
	credential func() string
	newRemote  RemoteFactory
	poll       poller
	stat       func(name string) (os.FileInfo, error)
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithCredential overrides where the API key is read from.
func WithCredential(credential func() string) Option {
	return func(c *Client) { c.credential = credential }
}

// WithPollInterval sets the wait between remote state checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.poll.interval = d
		}
	}
}

// WithSleeper replaces the wait used between remote state checks.
func WithSleeper(sleep Sleeper) Option {
	return func(c *Client) { c.poll.sleep = sleep }
}

// WithLogger sets the logger used for cleanup warnings and run summaries.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient builds a client. The API key is read from GOOGLE_API_KEY on
// every run unless WithCredential is given.
func NewClient(factory RemoteFactory, opts ...Option) *Client {
	c := &Client{
		credential: func() string { return os.Getenv(CredentialEnv) },
		newRemote:  factory,
		poll:       poller{interval: defaultPollPeriod, sleep: sleepContext},
		stat:       os.Stat,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateMinutes runs req and returns either the generated Markdown or an
// error-marker string starting with ErrorPrefix.
func (c *Client) GenerateMinutes(ctx context.Context, req Request) string {
	text, err := c.Run(ctx, req)
	if err != nil {
		return classify(err).Error()
	}
	return text
}

// Run is GenerateMinutes with a typed error. Every returned error is a *Error.
func (c *Client) Run(ctx context.Context, req Request) (text string, err error) {
	r := runReporter{reporter: req.Reporter}
	if r.reporter == nil {
		r.reporter = NopReporter{}
	}

	started := time.Now()
	log := c.log.With().Str("file", filepath.Base(req.FilePath)).Logger()
	defer func() {
		if err != nil {
			r.progress(progressStart, "Error")
			log.Error().Err(err).Str("kind", string(KindOf(err))).Dur("elapsed", time.Since(started)).Msg("minutes generation failed")
			return
		}
		log.Info().Int("chars", len(text)).Dur("elapsed", time.Since(started)).Msg("minutes generated")
	}()

	apiKey := strings.TrimSpace(c.credential())
	if apiKey == "" {
		return "", &Error{Kind: KindMissingCredential}
	}
	if _, statErr := c.stat(req.FilePath); statErr != nil {
		return "", &Error{Kind: KindMissingFile, Detail: req.FilePath, Err: statErr}
	}

	r.status("Configuring API client")
	remote, err := c.newRemote(ctx, apiKey)
	if err != nil {
		return "", classify(err)
	}

	text, err = c.generate(ctx, remote, req, r)
	if err != nil {
		return "", classify(err)
	}
	return text, nil
}

// generate owns the remote file handle for one run and always releases it.
func (c *Client) generate(ctx context.Context, remote Remote, req Request, r runReporter) (text string, err error) {
	var (
		file     RemoteFile
		acquired bool
	)
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", &Error{Kind: KindUnexpected, Detail: fmt.Sprint(rec)}
		}
		if acquired {
			c.release(ctx, remote, file, r)
		}
	}()

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = media.MIMEType(req.FilePath)
	}

	r.status(fmt.Sprintf("Uploading file: %s", filepath.Base(req.FilePath)))
	r.progress(progressStart, "Upload started")
	emitStage(req.OnStage, StageUploading)

	file, err = remote.Upload(ctx, req.FilePath, mimeType)
	if err != nil {
		return "", err
	}
	acquired = file.Name != ""
	r.progress(progressUploaded, "Uploading")

	emitStage(req.OnStage, StageProcessing)
	file, err = c.poll.wait(ctx, file, progressUploaded, remote.Get, func(progress int) {
		r.progress(progress, "Uploading")
	})
	if err != nil {
		return "", err
	}
	if file.State != FileStateActive {
		return "", &Error{Kind: KindNotReady, Detail: string(file.State)}
	}

	r.progress(progressReady, "File ready")
	r.status("File ready, generating minutes")
	emitStage(req.OnStage, StageGenerating)

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = DefaultModel
	}
	prompt := req.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}

	r.progress(progressModel, "Preparing model")
	r.progress(progressGenerate, "Generating")
	text, err = remote.Generate(ctx, model, file, prompt)
	if err != nil {
		return "", err
	}

	r.progress(progressDone, "Done")
	r.status("Minutes generated")
	return text, nil
}

// release deletes the remote copy. Failures are warnings only and never
// replace the run result.
func (c *Client) release(ctx context.Context, remote Remote, file RemoteFile, r runReporter) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Warn().Str("remote_file", file.Name).Interface("panic", rec).Msg("delete remote file panicked")
		}
	}()

	r.status("Deleting remote file")
	if err := remote.Delete(context.WithoutCancel(ctx), file.Name); err != nil {
		c.log.Warn().Err(err).Str("remote_file", file.Name).Msg("failed to delete uploaded file")
		r.status(fmt.Sprintf("Warning: could not delete remote file %s", file.Name))
		return
	}
	r.status("Remote file deleted")
}

// runReporter clamps progress before forwarding it.
type runReporter struct {
	reporter Reporter
}

func (r runReporter) status(message string) {
	r.reporter.ReportStatus(message)
}

func (r runReporter) progress(percent int, label string) {
	r.reporter.ReportProgress(clampPercent(percent), label)
}

// emitStage forwards stage updates when callback is configured.
func emitStage(cb func(stage Stage), stage Stage) {
	if cb != nil {
		cb(stage)
	}
}
